package referral

import (
	"dogwalking/infras/otel"
	"dogwalking/internal/domains/referral/model/dto"
	"dogwalking/internal/domains/referral/service"
	"dogwalking/shared/constant"
	"dogwalking/shared/validator"
	"dogwalking/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Referral
	otel    otel.Otel
}

func New(service service.Referral, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/referrals", func(routerGroup chi.Router) {
		routerGroup.Post("/register", handler.Register)
		routerGroup.Get("/users/{id}/code", handler.GetCode)
		routerGroup.Get("/users/{id}/stats", handler.GetStats)
	})
}

// GetCode returns the user's referral code, issuing one on first use.
// @Summary Get referral code
// @Tags Referral
// @Produce json
// @Param id path string true "Referrer ID"
// @Success 200 {object} response.Data[dto.CodeResponse] "Referral code"
// @Failure 403 {object} response.Error
// @Router /v1/referrals/users/{id}/code [get]
// @Security BearerAuth
func (handler *Handler) GetCode(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReferralCode")
	defer scope.End()

	code, err := handler.service.GetOrCreateCode(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get referral code")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, code)
}

// Register links a new owner to the referrer behind a code.
// @Summary Register with a referral code
// @Tags Referral
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Data[dto.GrantResponse] "Pending referral"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error "Unknown code"
// @Failure 409 {object} response.Error "Already referred"
// @Router /v1/referrals/register [post]
// @Security BearerAuth
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RegisterReferral")
	defer scope.End()

	req := dto.RegisterRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	grant, err := handler.service.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register referral")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, grant)
}

// GetStats returns a referrer's totals and referrals.
// @Summary Get referral stats
// @Tags Referral
// @Produce json
// @Param id path string true "Referrer ID"
// @Success 200 {object} response.Data[dto.StatsResponse] "Referral stats"
// @Failure 403 {object} response.Error
// @Router /v1/referrals/users/{id}/stats [get]
// @Security BearerAuth
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReferralStats")
	defer scope.End()

	stats, err := handler.service.Stats(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get referral stats")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}
