package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Dispute=MockDisputeService

import (
	"context"
	"dogwalking/infras/otel"
	bookingModel "dogwalking/internal/domains/booking/model"
	bookingRepository "dogwalking/internal/domains/booking/repository"
	bookingService "dogwalking/internal/domains/booking/service"
	"dogwalking/internal/domains/dispute/model"
	"dogwalking/internal/domains/dispute/model/dto"
	"dogwalking/internal/domains/dispute/repository"
	ledgerService "dogwalking/internal/domains/ledger/service"
	"dogwalking/shared"
	"dogwalking/shared/clock"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/failure"
	"dogwalking/shared/keylock"
	"dogwalking/shared/money"
	gRepo "dogwalking/shared/repository"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Dispute records reports against bookings. Disputes hold the booking's
// money until resolved, incidents never do.
type Dispute interface {
	OpenDispute(ctx context.Context, req dto.OpenDisputeRequest) (dto.DisputeResponse, error)
	MarkUnderReview(ctx context.Context, id string) (dto.DisputeResponse, error)
	ResolveDispute(ctx context.Context, id string, req dto.ResolveDisputeRequest) (dto.DisputeResponse, error)
	ListDisputes(ctx context.Context, bookingID string) (dto.DisputesResponse, error)
	OpenIncident(ctx context.Context, req dto.OpenIncidentRequest) (dto.IncidentResponse, error)
	ResolveIncident(ctx context.Context, id string) (dto.IncidentResponse, error)
	ListIncidents(ctx context.Context, bookingID string) (dto.IncidentsResponse, error)
}

type serviceImpl struct {
	disputes   repository.Dispute
	incidents  repository.Incident
	bookings   bookingRepository.Booking
	booking    bookingService.Booking
	ledger     ledgerService.Ledger
	locker     keylock.Locker
	transactor gRepo.Transactor
	clock      clock.Clock
	otel       otel.Otel
}

func New(
	disputes repository.Dispute,
	incidents repository.Incident,
	bookings bookingRepository.Booking,
	booking bookingService.Booking,
	ledger ledgerService.Ledger,
	locker keylock.Locker,
	transactor gRepo.Transactor,
	clk clock.Clock,
	otel otel.Otel,
) Dispute {
	return &serviceImpl{
		disputes:   disputes,
		incidents:  incidents,
		bookings:   bookings,
		booking:    booking,
		ledger:     ledger,
		locker:     locker,
		transactor: transactor,
		clock:      clk,
		otel:       otel,
	}
}

func openFilter(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldBookingID, Value: bookingID, Operator: gDto.FilterOperatorEq, Table: model.TableDisputes},
		gDto.Filter{ArgName: "open_status", Field: model.FieldStatus, Value: model.OpenStatuses, Operator: gDto.FilterOperatorIn, Table: model.TableDisputes},
	}}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation
}

// reporterOf loads the booking and checks the caller is one of its parties.
func (s *serviceImpl) reporterOf(ctx context.Context, bookingID string) (bookingModel.Booking, string, error) {
	booking, err := s.bookings.Get(ctx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		return booking, constant.Empty, err // nolint:wrapcheck
	}

	if booking.ID == constant.Empty {
		return booking, constant.Empty, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	reporter, _ := shared.Actor(ctx)
	if !booking.IsParty(reporter) {
		return booking, constant.Empty, failure.UnauthorizedActor("only a party of the booking may report on it") // nolint:wrapcheck
	}

	return booking, reporter, nil
}

func (s *serviceImpl) OpenDispute(ctx context.Context, req dto.OpenDisputeRequest) (res dto.DisputeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dispute.OpenDispute")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	switch {
	case strings.TrimSpace(req.Description) == constant.Empty:
		return res, failure.Validation("dispute description is required") // nolint:wrapcheck
	case !model.IsValidDisputeType(req.Type):
		return res, failure.Validation("unknown dispute type " + req.Type) // nolint:wrapcheck
	case !model.IsValidRemedy(req.Remedy):
		return res, failure.Validation("unknown remedy " + req.Remedy) // nolint:wrapcheck
	}

	ctx, release, err := s.locker.Acquire(ctx, keylock.BookingKey(req.BookingID))
	if err != nil {
		return res, err // nolint:wrapcheck
	}
	defer release()

	var dispute model.Dispute

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		booking, reporter, err := s.reporterOf(ctx, req.BookingID)
		if err != nil {
			return err
		}

		reported := booking.Counterparty(reporter)
		if req.ReportedID != constant.Empty && req.ReportedID != reported {
			return failure.Validation("the reported party must be the other party of the booking") // nolint:wrapcheck
		}

		open, err := s.disputes.Exist(ctx, openFilter(booking.ID))
		if err != nil {
			return err // nolint:wrapcheck
		}

		if open {
			return failure.DuplicateDispute("booking already has an open dispute") // nolint:wrapcheck
		}

		dispute = req.ToModel(reporter, reported, s.clock.Now())

		if err := s.disputes.Insert(ctx, dispute); err != nil {
			if isUniqueViolation(err) {
				return failure.DuplicateDispute("booking already has an open dispute") // nolint:wrapcheck
			}

			return err // nolint:wrapcheck
		}

		if err := s.ledger.MarkFrozen(ctx, booking.ID); err != nil {
			return err // nolint:wrapcheck
		}

		if booking.IsTerminal() {
			return nil
		}

		return s.booking.MarkDisputed(ctx, booking.ID) // nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", req.BookingID).Msg("failed to open dispute")

		return res, fmt.Errorf("failed to open dispute: %w", err)
	}

	res.FromModel(dispute)

	return res, nil
}

func (s *serviceImpl) MarkUnderReview(ctx context.Context, id string) (res dto.DisputeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dispute.MarkUnderReview")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsPrivileged(ctx) {
		return res, failure.UnauthorizedActor("only moderators may review disputes") // nolint:wrapcheck
	}

	var dispute model.Dispute

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.disputes.GetForUpdate(ctx, shared.FilterByID(id, model.FieldID, model.TableDisputes))
		if err != nil {
			return err // nolint:wrapcheck
		}

		dispute = locked

		switch dispute.Status {
		case constant.Empty:
			return failure.NotFound("dispute not found") // nolint:wrapcheck
		case model.StatusResolved:
			return failure.TerminalState("dispute is already resolved") // nolint:wrapcheck
		case model.StatusUnderReview:
			return nil
		}

		now := s.clock.Now()
		actor := shared.ActorOrSystem(ctx)

		filter := shared.FilterByID(id, model.FieldID, model.TableDisputes)
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "current_status",
			Field:    model.FieldStatus,
			Value:    model.StatusOpen,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableDisputes,
		})

		affected, err := s.disputes.UpdateAffected(ctx, map[string]any{
			model.FieldStatus:        model.StatusUnderReview,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: actor,
		}, filter)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if affected == 0 {
			return failure.Conflict("dispute changed concurrently") // nolint:wrapcheck
		}

		dispute.Status = model.StatusUnderReview
		dispute.ModifiedAt = now
		dispute.ModifiedBy = actor

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("disputeID", id).Msg("failed to mark dispute under review")

		return res, fmt.Errorf("failed to mark dispute under review: %w", err)
	}

	res.FromModel(dispute)

	return res, nil
}

func (s *serviceImpl) ResolveDispute(ctx context.Context, id string, req dto.ResolveDisputeRequest) (res dto.DisputeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dispute.ResolveDispute")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsPrivileged(ctx) {
		return res, failure.UnauthorizedActor("only moderators may resolve disputes") // nolint:wrapcheck
	}

	if !model.IsValidOutcome(req.Outcome) {
		return res, failure.Validation("unknown outcome " + req.Outcome) // nolint:wrapcheck
	}

	refund, err := req.ParseRefund()
	if err != nil || (req.Outcome == model.OutcomePartialRefund && !refund.IsPositive()) {
		return res, failure.Validation("partial refund requires a positive refund amount") // nolint:wrapcheck
	}

	dispute, err := s.disputes.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableDisputes))
	if err != nil {
		log.Error().Err(err).Str("disputeID", id).Msg("failed to get dispute")

		return res, fmt.Errorf("failed to get dispute: %w", err)
	}

	if dispute.ID == constant.Empty {
		return res, failure.NotFound("dispute not found") // nolint:wrapcheck
	}

	ctx, release, err := s.locker.Acquire(ctx, keylock.BookingKey(dispute.BookingID))
	if err != nil {
		return res, err // nolint:wrapcheck
	}
	defer release()

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.disputes.GetForUpdate(ctx, shared.FilterByID(id, model.FieldID, model.TableDisputes))
		if err != nil {
			return err // nolint:wrapcheck
		}

		dispute = locked

		if !dispute.IsOpen() {
			return failure.TerminalState("dispute is already resolved") // nolint:wrapcheck
		}

		booking, err := s.bookings.Get(ctx, shared.FilterByID(dispute.BookingID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			return err // nolint:wrapcheck
		}

		if req.Outcome == model.OutcomePartialRefund && !booking.HasStarted() {
			return failure.InvalidTransition("partial refund needs a booking that has started, resolve with refund instead") // nolint:wrapcheck
		}

		switch req.Outcome {
		case model.OutcomeRefund:
			err = s.ledger.Reverse(ctx, dispute.BookingID, "dispute "+dispute.ID+" refunded")
		case model.OutcomePartialRefund:
			err = s.ledger.Adjust(ctx, dispute.BookingID, dispute.ID, refund, "dispute "+dispute.ID+" partial refund")
		}

		if err != nil {
			return err // nolint:wrapcheck
		}

		if err := s.ledger.UnmarkFrozen(ctx, dispute.BookingID); err != nil {
			return err // nolint:wrapcheck
		}

		if booking.Status == bookingModel.StatusDisputed {
			if err := s.booking.ResolveDisputed(ctx, booking.ID, req.Outcome == model.OutcomeRefund); err != nil {
				return err // nolint:wrapcheck
			}
		}

		return s.markResolved(ctx, &dispute, req.Outcome, refund)
	})
	if err != nil {
		log.Error().Err(err).Str("disputeID", id).Msg("failed to resolve dispute")

		return res, fmt.Errorf("failed to resolve dispute: %w", err)
	}

	res.FromModel(dispute)

	return res, nil
}

func (s *serviceImpl) markResolved(ctx context.Context, dispute *model.Dispute, outcome string, refund money.Amount) error {
	now := s.clock.Now()
	actor := shared.ActorOrSystem(ctx)

	fields := map[string]any{
		model.FieldStatus:        model.StatusResolved,
		model.FieldOutcome:       outcome,
		model.FieldResolvedBy:    actor,
		model.FieldResolvedAt:    now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	dispute.Status = model.StatusResolved
	dispute.Outcome = &outcome
	dispute.ResolvedBy = &actor
	dispute.ResolvedAt = &now
	dispute.ModifiedAt = now
	dispute.ModifiedBy = actor

	if refund.IsPositive() {
		fields[model.FieldRefundAmount] = refund
		dispute.RefundAmount = &refund
	}

	filter := shared.FilterByID(dispute.ID, model.FieldID, model.TableDisputes)
	filter.Filters = append(filter.Filters, gDto.Filter{
		ArgName:  "open_status",
		Field:    model.FieldStatus,
		Value:    model.OpenStatuses,
		Operator: gDto.FilterOperatorIn,
		Table:    model.TableDisputes,
	})

	affected, err := s.disputes.UpdateAffected(ctx, fields, filter)
	if err != nil {
		return err // nolint:wrapcheck
	}

	if affected == 0 {
		return failure.Conflict("dispute changed concurrently") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) ListDisputes(ctx context.Context, bookingID string) (res dto.DisputesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dispute.ListDisputes")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.authorizeRead(ctx, bookingID); err != nil {
		return res, err
	}

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	models, err := s.disputes.GetAll(ctx, params, shared.FilterBy(model.FieldBookingID, bookingID, model.TableDisputes))
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to list disputes")

		return res, fmt.Errorf("failed to list disputes: %w", err)
	}

	res.FromModels(models)

	return res, nil
}

func (s *serviceImpl) OpenIncident(ctx context.Context, req dto.OpenIncidentRequest) (res dto.IncidentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dispute.OpenIncident")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !model.IsValidIncidentType(req.Type) {
		return res, failure.Validation("unknown incident type " + req.Type) // nolint:wrapcheck
	}

	_, reporter, err := s.reporterOf(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	incident := req.ToModel(reporter, s.clock.Now())

	if err = s.incidents.Insert(ctx, incident); err != nil {
		log.Error().Err(err).Str("bookingID", req.BookingID).Msg("failed to open incident")

		return res, fmt.Errorf("failed to open incident: %w", err)
	}

	res.FromModel(incident)

	return res, nil
}

func (s *serviceImpl) ResolveIncident(ctx context.Context, id string) (res dto.IncidentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dispute.ResolveIncident")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsPrivileged(ctx) {
		return res, failure.UnauthorizedActor("only moderators may resolve incidents") // nolint:wrapcheck
	}

	incident, err := s.incidents.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableIncidents))
	if err != nil {
		log.Error().Err(err).Str("incidentID", id).Msg("failed to get incident")

		return res, fmt.Errorf("failed to get incident: %w", err)
	}

	switch incident.Status {
	case constant.Empty:
		return res, failure.NotFound("incident not found") // nolint:wrapcheck
	case model.StatusResolved:
		return res, failure.TerminalState("incident is already resolved") // nolint:wrapcheck
	}

	now := s.clock.Now()
	actor := shared.ActorOrSystem(ctx)

	filter := shared.FilterByID(id, model.FieldID, model.TableIncidents)
	filter.Filters = append(filter.Filters, gDto.Filter{
		ArgName:  "open_status",
		Field:    model.FieldStatus,
		Value:    model.OpenStatuses,
		Operator: gDto.FilterOperatorIn,
		Table:    model.TableIncidents,
	})

	affected, err := s.incidents.UpdateAffected(ctx, map[string]any{
		model.FieldStatus:        model.StatusResolved,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}, filter)
	if err != nil {
		log.Error().Err(err).Str("incidentID", id).Msg("failed to resolve incident")

		return res, fmt.Errorf("failed to resolve incident: %w", err)
	}

	if affected == 0 {
		return res, failure.TerminalState("incident is already resolved") // nolint:wrapcheck
	}

	incident.Status = model.StatusResolved
	incident.ModifiedAt = now
	incident.ModifiedBy = actor

	res.FromModel(incident)

	return res, nil
}

func (s *serviceImpl) ListIncidents(ctx context.Context, bookingID string) (res dto.IncidentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dispute.ListIncidents")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.authorizeRead(ctx, bookingID); err != nil {
		return res, err
	}

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	models, err := s.incidents.GetAll(ctx, params, shared.FilterBy(model.FieldBookingID, bookingID, model.TableIncidents))
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to list incidents")

		return res, fmt.Errorf("failed to list incidents: %w", err)
	}

	res.FromModels(models)

	return res, nil
}

func (s *serviceImpl) authorizeRead(ctx context.Context, bookingID string) error {
	if shared.IsPrivileged(ctx) {
		return nil
	}

	_, _, err := s.reporterOf(ctx, bookingID)

	return err
}
