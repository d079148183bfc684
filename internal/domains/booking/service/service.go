package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"dogwalking/config"
	"dogwalking/infras/otel"
	"dogwalking/internal/domains/booking/model"
	"dogwalking/internal/domains/booking/model/dto"
	"dogwalking/internal/domains/booking/repository"
	ledgerService "dogwalking/internal/domains/ledger/service"
	proofModel "dogwalking/internal/domains/proof/model"
	proofService "dogwalking/internal/domains/proof/service"
	"dogwalking/internal/events"
	"dogwalking/shared"
	"dogwalking/shared/cache"
	"dogwalking/shared/clock"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/failure"
	"dogwalking/shared/keylock"
	gRepo "dogwalking/shared/repository"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

// Booking is the only writer of booking status.
type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Confirm(ctx context.Context, id string) (dto.BookingResponse, error)
	Start(ctx context.Context, id string) (dto.BookingResponse, error)
	Complete(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (dto.BookingResponse, error)
	// MarkDisputed parks a non-terminal booking while a dispute is open.
	MarkDisputed(ctx context.Context, id string) error
	// ResolveDisputed returns the booking to its pre-dispute status, or cancels it when refunded.
	ResolveDisputed(ctx context.Context, id string, refunded bool) error
	Invoices(ctx context.Context, ownerID string) (dto.InvoicesResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	proofs     proofService.Registry
	ledger     ledgerService.Ledger
	locker     keylock.Locker
	transactor gRepo.Transactor
	emitter    events.Emitter
	clock      clock.Clock
	policy     CancellationPolicy
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	proofs proofService.Registry,
	ledger ledgerService.Ledger,
	locker keylock.Locker,
	transactor gRepo.Transactor,
	emitter events.Emitter,
	clk clock.Clock,
	policy CancellationPolicy,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		proofs:     proofs,
		ledger:     ledger,
		locker:     locker,
		transactor: transactor,
		emitter:    emitter,
		clock:      clk,
		policy:     policy,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, _ := shared.Actor(ctx)
	if owner == constant.Empty {
		return res, failure.Unauthorized("missing actor") // nolint:wrapcheck
	}

	now := s.clock.Now()

	booking, err := req.ToModel(owner, now)
	if err != nil {
		return res, failure.Validation(fmt.Sprintf("invalid booking request: %v", err)) // nolint:wrapcheck
	}

	switch {
	case booking.WalkerID == constant.Empty:
		return res, failure.Validation("walker is required") // nolint:wrapcheck
	case booking.WalkerID == booking.OwnerID:
		return res, failure.Validation("walker and owner must differ") // nolint:wrapcheck
	case !booking.GrossAmount.IsPositive():
		return res, failure.Validation("gross amount must be positive") // nolint:wrapcheck
	case booking.DurationMinutes <= 0:
		return res, failure.Validation("duration must be positive") // nolint:wrapcheck
	case !model.IsValidServiceKind(booking.ServiceKind):
		return res, failure.Validation("unknown service kind " + booking.ServiceKind) // nolint:wrapcheck
	case !booking.ScheduledAt.After(now):
		return res, failure.Validation("booking must be scheduled in the future") // nolint:wrapcheck
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Insert(ctx, booking); err != nil {
			return err // nolint:wrapcheck
		}

		return s.emitter.Emit(ctx, statusChanged(booking, constant.Empty, owner, now)) // nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.emitter.Notify()
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)

	res.FromModel(booking)

	return res, nil
}

// scopeToActor limits non-privileged callers to bookings they are a party to.
func scopeToActor(ctx context.Context, filter gDto.FilterGroup) gDto.FilterGroup {
	if shared.IsPrivileged(ctx) {
		return filter
	}

	actor, _ := shared.Actor(ctx)

	return gDto.FilterGroup{Filters: []any{
		gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{ArgName: "actor_owner", Field: model.FieldOwnerID, Value: actor, Operator: gDto.FilterOperatorEq, Table: model.TableName},
				gDto.Filter{ArgName: "actor_walker", Field: model.FieldWalkerID, Value: actor, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			},
		},
		filter,
	}}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter = scopeToActor(ctx, filter)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save bookings to cache")
	}

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.count(ctx, req, scopeToActor(ctx, filter))
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save booking count to cache")
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return res, fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return res, failure.NotFound("booking not found") // nolint:wrapcheck
		}

		res.FromModel(booking)

		if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	} else {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")
	}

	actor, _ := shared.Actor(ctx)
	if !shared.IsPrivileged(ctx) && actor != res.OwnerID && actor != res.WalkerID {
		return dto.BookingResponse{}, failure.UnauthorizedActor("booking belongs to other users") // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Confirm")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.transition(ctx, id, step{
		target:    fixed(model.StatusConfirmed),
		authorize: walkerOnly("confirm"),
		apply: func(_ context.Context, b *model.Booking, now time.Time) (map[string]any, error) {
			b.ConfirmedAt = &now

			return map[string]any{model.FieldConfirmedAt: now}, nil
		},
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to confirm booking")

		return res, fmt.Errorf("failed to confirm booking: %w", err)
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Start(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Start")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.transition(ctx, id, step{
		target:    fixed(model.StatusInProgress),
		authorize: walkerOnly("start"),
		apply: func(ctx context.Context, b *model.Booking, now time.Time) (map[string]any, error) {
			if err := s.requireProof(ctx, b.ID, proofModel.KindPickup); err != nil {
				return nil, err
			}

			if err := s.ledger.OnBookingStarted(ctx, b.ID, b.WalkerID, b.GrossAmount); err != nil {
				return nil, err // nolint:wrapcheck
			}

			b.StartedAt = &now

			return map[string]any{model.FieldStartedAt: now}, nil
		},
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to start booking")

		return res, fmt.Errorf("failed to start booking: %w", err)
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Complete(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Complete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.transition(ctx, id, step{
		target:    fixed(model.StatusCompleted),
		authorize: walkerOnly("complete"),
		apply: func(ctx context.Context, b *model.Booking, now time.Time) (map[string]any, error) {
			if err := s.requireProof(ctx, b.ID, proofModel.KindCompletion); err != nil {
				return nil, err
			}

			if err := s.ledger.OnBookingCompleted(ctx, b.ID, b.WalkerID, b.GrossAmount); err != nil {
				return nil, err // nolint:wrapcheck
			}

			b.CompletedAt = &now

			return map[string]any{model.FieldCompletedAt: now}, nil
		},
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to complete booking")

		return res, fmt.Errorf("failed to complete booking: %w", err)
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !model.IsValidCancellationReason(req.Reason) {
		return res, failure.Validation("unknown cancellation reason " + req.Reason) // nolint:wrapcheck
	}

	detail := strings.TrimSpace(req.Detail)
	if req.Reason == model.ReasonOther && detail == constant.Empty {
		return res, failure.Validation("cancellation detail is required for reason other") // nolint:wrapcheck
	}

	booking, err := s.transition(ctx, id, step{
		target: fixed(model.StatusCancelled),
		authorize: func(b model.Booking, actor string) error {
			if !b.IsParty(actor) {
				return failure.UnauthorizedActor("only the owner or the walker may cancel") // nolint:wrapcheck
			}

			return nil
		},
		apply: func(ctx context.Context, b *model.Booking, now time.Time) (map[string]any, error) {
			actor := shared.ActorOrSystem(ctx)
			late := s.policy.IsLate(b.ScheduledAt, now)

			b.CancellationReason = &req.Reason
			b.CancellationDetail = &detail
			b.CancelledBy = &actor
			b.LateCancellation = late
			b.CancelledAt = &now

			if fee := s.policy.Fee(b.GrossAmount, late); fee.IsPositive() {
				log.Info().Str("bookingID", b.ID).Str("fee", fee.String()).Msg("cancellation fee applies")
			}

			return map[string]any{
				model.FieldCancellationReason: req.Reason,
				model.FieldCancellationDetail: detail,
				model.FieldCancelledBy:        actor,
				model.FieldLateCancellation:   late,
				model.FieldCancelledAt:        now,
			}, nil
		},
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) MarkDisputed(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.MarkDisputed")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	_, err = s.transition(ctx, id, step{
		target: fixed(model.StatusDisputed),
		apply: func(_ context.Context, b *model.Booking, _ time.Time) (map[string]any, error) {
			previous := b.Status
			b.StatusBeforeDispute = &previous

			return map[string]any{model.FieldStatusBeforeDispute: previous}, nil
		},
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to mark booking disputed")

		return fmt.Errorf("failed to mark booking disputed: %w", err)
	}

	return nil
}

func (s *serviceImpl) ResolveDisputed(ctx context.Context, id string, refunded bool) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ResolveDisputed")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	_, err = s.transition(ctx, id, step{
		target: func(b model.Booking) string {
			if b.Status != model.StatusDisputed {
				return b.Status
			}

			if refunded {
				return model.StatusCancelled
			}

			return b.RestoreTarget()
		},
		allowed: func(b model.Booking, _ string) bool {
			return b.Status == model.StatusDisputed
		},
		apply: func(ctx context.Context, b *model.Booking, now time.Time) (map[string]any, error) {
			b.StatusBeforeDispute = nil
			fields := map[string]any{model.FieldStatusBeforeDispute: nil}

			if refunded {
				actor := shared.ActorOrSystem(ctx)
				reason := model.ReasonDisputeRefund

				b.CancellationReason = &reason
				b.CancelledBy = &actor
				b.CancelledAt = &now

				fields[model.FieldCancellationReason] = reason
				fields[model.FieldCancelledBy] = actor
				fields[model.FieldCancelledAt] = now
			}

			return fields, nil
		},
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to resolve disputed booking")

		return fmt.Errorf("failed to resolve disputed booking: %w", err)
	}

	return nil
}

func (s *serviceImpl) Invoices(ctx context.Context, ownerID string) (res dto.InvoicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Invoices")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if actor, _ := shared.Actor(ctx); actor != ownerID && !shared.IsPrivileged(ctx) {
		return res, failure.UnauthorizedActor("invoices belong to the owner") // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldOwnerID, Value: ownerID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{
			Field:    model.FieldStatus,
			Value:    []string{model.StatusConfirmed, model.StatusInProgress, model.StatusCompleted},
			Operator: gDto.FilterOperatorIn,
			Table:    model.TableName,
		},
	}}

	params := gDto.QueryParams{SortBy: model.FieldScheduledAt, SortDir: gDto.SortDirDesc}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoices")

		return res, fmt.Errorf("failed to get invoices: %w", err)
	}

	res.FromModels(models)

	return res, nil
}

// requireProof fails closed: a registry error is never read as missing proof.
func (s *serviceImpl) requireProof(ctx context.Context, bookingID, kind string) error {
	ok, err := s.proofs.HasProof(ctx, bookingID, kind)
	if err != nil {
		return err // nolint:wrapcheck
	}

	if !ok {
		return failure.MissingProof(kind + " proof is required") // nolint:wrapcheck
	}

	return nil
}
