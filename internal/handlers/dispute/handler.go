package dispute

import (
	"dogwalking/infras/otel"
	"dogwalking/internal/domains/dispute/model/dto"
	"dogwalking/internal/domains/dispute/service"
	"dogwalking/shared/constant"
	"dogwalking/shared/validator"
	"dogwalking/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Dispute
	otel    otel.Otel
}

func New(service service.Dispute, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/disputes", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.OpenDispute)
		routerGroup.Get("/", handler.GetDisputes)
		routerGroup.Post("/{id}/review", handler.MarkUnderReview)
		routerGroup.Post("/{id}/resolve", handler.ResolveDispute)
	})

	router.Route("/incidents", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.OpenIncident)
		routerGroup.Get("/", handler.GetIncidents)
		routerGroup.Post("/{id}/resolve", handler.ResolveIncident)
	})
}

// OpenDispute files a dispute against a booking and holds its earnings.
// @Summary Open a dispute
// @Tags Dispute
// @Accept json
// @Produce json
// @Param request body dto.OpenDisputeRequest true "Open Dispute Request"
// @Success 201 {object} response.Data[dto.DisputeResponse] "Dispute"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error "Booking already has an open dispute"
// @Router /v1/disputes [post]
// @Security BearerAuth
func (handler *Handler) OpenDispute(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".OpenDispute")
	defer scope.End()

	req := dto.OpenDisputeRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	dispute, err := handler.service.OpenDispute(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to open dispute")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Dispute opened " + dispute.ID)

	response.WithJSON(w, http.StatusCreated, dispute)
}

// GetDisputes lists the disputes of a booking.
// @Summary List disputes of a booking
// @Tags Dispute
// @Produce json
// @Param booking_id query string true "Booking ID"
// @Success 200 {object} response.Data[dto.DisputesResponse] "Disputes"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/disputes [get]
// @Security BearerAuth
func (handler *Handler) GetDisputes(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDisputes")
	defer scope.End()

	disputes, err := handler.service.ListDisputes(ctx, r.URL.Query().Get(constant.RequestParamBookingID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list disputes")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, disputes)
}

// MarkUnderReview records that support picked up a dispute.
// @Summary Mark a dispute under review
// @Tags Dispute
// @Produce json
// @Param id path string true "Dispute ID"
// @Success 200 {object} response.Data[dto.DisputeResponse] "Dispute"
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/disputes/{id}/review [post]
// @Security BearerAuth
func (handler *Handler) MarkUnderReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkUnderReview")
	defer scope.End()

	dispute, err := handler.service.MarkUnderReview(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark dispute under review")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dispute)
}

// ResolveDispute closes a dispute with an outcome and applies it to the ledger.
// @Summary Resolve a dispute
// @Tags Dispute
// @Accept json
// @Produce json
// @Param id path string true "Dispute ID"
// @Param request body dto.ResolveDisputeRequest true "Resolve Dispute Request"
// @Success 200 {object} response.Data[dto.DisputeResponse] "Resolved dispute"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/disputes/{id}/resolve [post]
// @Security BearerAuth
func (handler *Handler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResolveDispute")
	defer scope.End()

	req := dto.ResolveDisputeRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	dispute, err := handler.service.ResolveDispute(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve dispute")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Dispute resolved with " + dispute.Outcome)

	response.WithJSON(w, http.StatusOK, dispute)
}

// OpenIncident reports a minor issue with a booking.
// @Summary Report an incident
// @Tags Incident
// @Accept json
// @Produce json
// @Param request body dto.OpenIncidentRequest true "Open Incident Request"
// @Success 201 {object} response.Data[dto.IncidentResponse] "Incident"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/incidents [post]
// @Security BearerAuth
func (handler *Handler) OpenIncident(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".OpenIncident")
	defer scope.End()

	req := dto.OpenIncidentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	incident, err := handler.service.OpenIncident(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to open incident")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, incident)
}

// GetIncidents lists the incidents of a booking.
// @Summary List incidents of a booking
// @Tags Incident
// @Produce json
// @Param booking_id query string true "Booking ID"
// @Success 200 {object} response.Data[dto.IncidentsResponse] "Incidents"
// @Failure 403 {object} response.Error
// @Router /v1/incidents [get]
// @Security BearerAuth
func (handler *Handler) GetIncidents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetIncidents")
	defer scope.End()

	incidents, err := handler.service.ListIncidents(ctx, r.URL.Query().Get(constant.RequestParamBookingID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list incidents")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, incidents)
}

// ResolveIncident closes an incident.
// @Summary Resolve an incident
// @Tags Incident
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} response.Data[dto.IncidentResponse] "Incident"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/incidents/{id}/resolve [post]
// @Security BearerAuth
func (handler *Handler) ResolveIncident(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResolveIncident")
	defer scope.End()

	incident, err := handler.service.ResolveIncident(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve incident")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, incident)
}
