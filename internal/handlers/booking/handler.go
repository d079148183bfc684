package booking

import (
	"context"
	"dogwalking/infras/otel"
	"dogwalking/internal/domains/booking/model"
	"dogwalking/internal/domains/booking/model/dto"
	"dogwalking/internal/domains/booking/service"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/validator"
	"dogwalking/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Post("/{id}/confirm", handler.ConfirmBooking)
		routerGroup.Post("/{id}/start", handler.StartBooking)
		routerGroup.Post("/{id}/complete", handler.CompleteBooking)
		routerGroup.Post("/{id}/cancel", handler.CancelBooking)
	})

	router.Get("/owners/{id}/invoices", handler.GetInvoices)
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Book a walker. The caller becomes the owner of the booking.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Created booking"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created " + booking.ID)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings retrieves the bookings visible to the caller.
// @Summary Get bookings
// @Description Users see the bookings they own or walk. Admins see every booking.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param owner_id query string false "Filter by owner"
// @Param walker_id query string false "Filter by walker"
// @Param service_kind query string false "Filter by service kind"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldStatus, model.FieldOwnerID, model.FieldWalkerID, model.FieldServiceKind} {
		value := r.URL.Query().Get(field)
		if value == constant.Empty {
			continue
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    value,
			Table:    model.TableName,
		})
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// ConfirmBooking accepts a pending booking.
// @Summary Confirm a booking
// @Description Only the walker of the booking may confirm it.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Confirmed booking"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/confirm [post]
// @Security BearerAuth
func (handler *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "ConfirmBooking", handler.service.Confirm)
}

// StartBooking begins the walk once the pickup photo is on record.
// @Summary Start a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Started booking"
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 412 {object} response.Error "Pickup proof missing"
// @Failure 503 {object} response.Error "Proof registry unavailable"
// @Router /v1/bookings/{id}/start [post]
// @Security BearerAuth
func (handler *Handler) StartBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "StartBooking", handler.service.Start)
}

// CompleteBooking finishes the walk and settles the walker's earnings.
// @Summary Complete a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Completed booking"
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 412 {object} response.Error "Completion proof missing"
// @Router /v1/bookings/{id}/complete [post]
// @Security BearerAuth
func (handler *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "CompleteBooking", handler.service.Complete)
}

func (handler *Handler) transition(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context, string) (dto.BookingResponse, error)) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := fn(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("bookingID", id).Str("action", name).Msg("failed to transition booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking " + id + " is now " + booking.Status)

	response.WithJSON(w, http.StatusOK, booking)
}

// CancelBooking cancels a booking that has not started.
// @Summary Cancel a booking
// @Description Either party may cancel. Cancelling close to the start is flagged as late.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CancelBookingRequest true "Cancel Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Cancelled booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CancelBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Cancel(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// GetInvoices lists what an owner has paid and still owes.
// @Summary Get owner invoices
// @Tags Booking
// @Produce json
// @Param id path string true "Owner ID"
// @Success 200 {object} response.Data[dto.InvoicesResponse] "Invoices"
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/owners/{id}/invoices [get]
// @Security BearerAuth
func (handler *Handler) GetInvoices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvoices")
	defer scope.End()

	invoices, err := handler.service.Invoices(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get invoices")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, invoices)
}
