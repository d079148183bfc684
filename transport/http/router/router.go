package router

import (
	"dogwalking/internal/handlers/booking"
	"dogwalking/internal/handlers/dispute"
	"dogwalking/internal/handlers/ledger"
	"dogwalking/internal/handlers/referral"
	"dogwalking/internal/handlers/review"
	"dogwalking/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Booking  booking.Handler
	Ledger   ledger.Handler
	Dispute  dispute.Handler
	Referral referral.Handler
	Review   review.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Ledger.Router(routerGroup)
		r.DomainHandlers.Dispute.Router(routerGroup)
		r.DomainHandlers.Referral.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
