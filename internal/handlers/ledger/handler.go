package ledger

import (
	"dogwalking/infras/otel"
	"dogwalking/internal/domains/ledger/model"
	"dogwalking/internal/domains/ledger/model/dto"
	"dogwalking/internal/domains/ledger/service"
	"dogwalking/internal/settlement"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Ledger
	sweeper settlement.Sweeper
	otel    otel.Otel
}

func New(service service.Ledger, sweeper settlement.Sweeper, otel otel.Otel) Handler {
	return Handler{
		service: service,
		sweeper: sweeper,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/ledger", func(routerGroup chi.Router) {
		routerGroup.Get("/entries/{id}", handler.GetEntry)
		routerGroup.Get("/walkers/{id}/entries", handler.GetEntries)
		routerGroup.Get("/walkers/{id}/summary", handler.GetSummary)
		routerGroup.Post("/walkers/{id}/payouts", handler.RequestPayout)
		routerGroup.Post("/backfill", handler.Backfill)
		routerGroup.Post("/sweep", handler.Sweep)
	})
}

// GetEntry returns the ledger entry of a booking.
// @Summary Get a ledger entry
// @Tags Ledger
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.EntryResponse] "Ledger entry"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/ledger/entries/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEntry")
	defer scope.End()

	entry, err := handler.service.GetEntry(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get ledger entry")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, entry)
}

// GetEntries lists a walker's ledger entries.
// @Summary List a walker's ledger entries
// @Tags Ledger
// @Produce json
// @Param id path string true "Walker ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param bucket query string false "Filter by bucket (none, pending, available, paid, reversed)"
// @Success 200 {object} response.Data[dto.GetEntriesResponse] "Ledger entries"
// @Failure 403 {object} response.Error
// @Router /v1/ledger/walkers/{id}/entries [get]
// @Security BearerAuth
func (handler *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEntries")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if bucket := r.URL.Query().Get(model.FieldBucket); bucket != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldBucket,
			Operator: gDto.FilterOperatorEq,
			Value:    bucket,
			Table:    model.TableName,
		})
	}

	entries, err := handler.service.ListEntries(ctx, chi.URLParam(r, constant.RequestParamID), queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list ledger entries")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, entries)
}

// GetSummary returns a walker's earnings per bucket and per month.
// @Summary Get earnings summary
// @Tags Ledger
// @Produce json
// @Param id path string true "Walker ID"
// @Success 200 {object} response.Data[dto.SummaryResponse] "Earnings summary"
// @Failure 403 {object} response.Error
// @Router /v1/ledger/walkers/{id}/summary [get]
// @Security BearerAuth
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSummary")
	defer scope.End()

	summary, err := handler.service.Summary(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get earnings summary")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, summary)
}

// RequestPayout pays out everything available to a walker.
// @Summary Request a payout
// @Tags Ledger
// @Produce json
// @Param id path string true "Walker ID"
// @Success 200 {object} response.Data[dto.PayoutResponse] "Payout"
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/ledger/walkers/{id}/payouts [post]
// @Security BearerAuth
func (handler *Handler) RequestPayout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RequestPayout")
	defer scope.End()

	payout, err := handler.service.RequestPayout(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to request payout")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, payout)
}

// Backfill creates settled entries for completed bookings that have none.
// @Summary Backfill ledger entries
// @Tags Ledger
// @Produce json
// @Success 200 {object} response.Data[dto.BackfillResponse] "Entries created"
// @Failure 403 {object} response.Error
// @Router /v1/ledger/backfill [post]
// @Security BearerAuth
func (handler *Handler) Backfill(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Backfill")
	defer scope.End()

	created, err := handler.service.Backfill(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to backfill ledger")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.BackfillResponse{Created: created})
}

// Sweep runs one settlement sweep on demand.
// @Summary Run a settlement sweep
// @Tags Ledger
// @Produce json
// @Success 200 {object} response.Data[dto.SweepResponse] "Sweep result"
// @Failure 403 {object} response.Error
// @Router /v1/ledger/sweep [post]
// @Security ApiKeyAuth
func (handler *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Sweep")
	defer scope.End()

	res, err := handler.sweeper.Sweep(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to run settlement sweep")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
