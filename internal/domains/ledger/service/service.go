package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Ledger=MockLedgerService

import (
	"context"
	"dogwalking/config"
	"dogwalking/infras/otel"
	"dogwalking/internal/domains/ledger/model"
	"dogwalking/internal/domains/ledger/model/dto"
	"dogwalking/internal/domains/ledger/repository"
	"dogwalking/internal/events"
	"dogwalking/shared"
	"dogwalking/shared/cache"
	"dogwalking/shared/clock"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/failure"
	"dogwalking/shared/keylock"
	gModel "dogwalking/shared/model"
	"dogwalking/shared/money"
	gRepo "dogwalking/shared/repository"
	"dogwalking/shared/timezone"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheSummary = "ledger:summary"

	promoteBatch  = 500
	backfillBatch = 200
	payoutWalkers = 1000
	summaryMonths = 6
)

// Ledger owns the walker-side money of every booking. Methods that change an
// entry take the booking lock and join the transaction in ctx when there is one.
type Ledger interface {
	OnBookingStarted(ctx context.Context, bookingID, walkerID string, gross money.Amount) error
	OnBookingCompleted(ctx context.Context, bookingID, walkerID string, gross money.Amount) error
	// PromoteMatured is the only path from pending to available.
	PromoteMatured(ctx context.Context, now time.Time) (int, error)
	MarkFrozen(ctx context.Context, bookingID string) error
	UnmarkFrozen(ctx context.Context, bookingID string) error
	Reverse(ctx context.Context, bookingID, reason string) error
	Adjust(ctx context.Context, bookingID, disputeID string, amount money.Amount, reason string) error
	RequestPayout(ctx context.Context, walkerID string) (dto.PayoutResponse, error)
	PayoutAll(ctx context.Context) (int, error)
	GetEntry(ctx context.Context, bookingID string) (dto.EntryResponse, error)
	ListEntries(ctx context.Context, walkerID string, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetEntriesResponse, error)
	Summary(ctx context.Context, walkerID string) (dto.SummaryResponse, error)
	Backfill(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo       repository.Ledger
	locker     keylock.Locker
	transactor gRepo.Transactor
	emitter    events.Emitter
	clock      clock.Clock
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Ledger,
	locker keylock.Locker,
	transactor gRepo.Transactor,
	emitter events.Emitter,
	clk clock.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Ledger {
	return &serviceImpl{
		repo:       repo,
		locker:     locker,
		transactor: transactor,
		emitter:    emitter,
		clock:      clk,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func byBooking(bookingID string) gDto.FilterGroup {
	return shared.FilterByID(bookingID, model.FieldBookingID, model.TableName)
}

func bucketChanged(entry model.LedgerEntry, from, to string, now time.Time) events.LedgerEntryBucketChanged {
	return events.LedgerEntryBucketChanged{
		BookingID: entry.BookingID,
		WalkerID:  entry.WalkerID,
		From:      from,
		To:        to,
		Timestamp: now,
	}
}

// withBooking runs fn holding the booking lock inside a transaction.
func (s *serviceImpl) withBooking(ctx context.Context, bookingID string, fn func(ctx context.Context) error) error {
	ctx, release, err := s.locker.Acquire(ctx, keylock.BookingKey(bookingID))
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer release()

	return s.transactor.WithinTransaction(ctx, fn) //nolint:wrapcheck
}

func (s *serviceImpl) invalidate(ctx context.Context, walkerID string) {
	if walkerID == constant.Empty {
		return
	}

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheSummary, walkerID)); err != nil {
		log.Error().Err(err).Str("walkerID", walkerID).Msg("failed to invalidate earnings summary")
	}
}

func (s *serviceImpl) authorize(ctx context.Context, walkerID string) error {
	if shared.IsPrivileged(ctx) {
		return nil
	}

	if actor, _ := shared.Actor(ctx); actor == constant.Empty || actor != walkerID {
		return failure.UnauthorizedActor("only the walker may access these earnings") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) OnBookingStarted(ctx context.Context, bookingID, walkerID string, gross money.Amount) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.OnBookingStarted")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if gross < 0 {
		return failure.Validation("gross amount must not be negative") //nolint:wrapcheck
	}

	err = s.withBooking(ctx, bookingID, func(ctx context.Context) error {
		now := s.clock.Now()

		created, err := s.repo.InsertIfAbsent(ctx, model.LedgerEntry{
			BookingID:      bookingID,
			WalkerID:       walkerID,
			GrossAmount:    gross,
			CommissionRate: s.cfg.Engine.CommissionRate.String(),
			Bucket:         model.BucketNone,
			Metadata:       gModel.NewMetadata(shared.ActorOrSystem(ctx), now),
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		if !created {
			log.Debug().Str("bookingID", bookingID).Msg("ledger entry already exists for started booking")
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to open ledger entry")

		return fmt.Errorf("failed to open ledger entry: %w", err)
	}

	return nil
}

func (s *serviceImpl) OnBookingCompleted(ctx context.Context, bookingID, walkerID string, gross money.Amount) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.OnBookingCompleted")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if gross < 0 {
		return failure.Validation("gross amount must not be negative") //nolint:wrapcheck
	}

	changed := false

	err = s.withBooking(ctx, bookingID, func(ctx context.Context) error {
		now := s.clock.Now()
		holdUntil := now.Add(s.cfg.Engine.SettlementHold)
		actor := shared.ActorOrSystem(ctx)

		entry, err := s.repo.GetForUpdate(ctx, byBooking(bookingID))
		if err != nil {
			return err //nolint:wrapcheck
		}

		if entry.BookingID == constant.Empty {
			entry = model.LedgerEntry{
				BookingID:   bookingID,
				WalkerID:    walkerID,
				GrossAmount: gross,
				Bucket:      model.BucketPending,
				HoldUntil:   &holdUntil,
				CompletedAt: &now,
				Metadata:    gModel.NewMetadata(actor, now),
			}
			entry.Settle(s.cfg.Engine.CommissionRate)

			created, err := s.repo.InsertIfAbsent(ctx, entry)
			if err != nil || !created {
				return err //nolint:wrapcheck
			}

			changed = true

			return s.emitter.Emit(ctx, bucketChanged(entry, model.BucketNone, model.BucketPending, now)) //nolint:wrapcheck
		}

		switch entry.Bucket {
		case model.BucketPending, model.BucketAvailable, model.BucketPaid:
			log.Debug().Str("bookingID", bookingID).Str("bucket", entry.Bucket).Msg("ledger entry already settled")

			return nil
		case model.BucketReversed:
			return failure.Conflict("ledger entry was reversed") //nolint:wrapcheck
		}

		entry.GrossAmount = gross
		entry.Bucket = model.BucketPending
		entry.HoldUntil = &holdUntil
		entry.CompletedAt = &now
		entry.Settle(s.cfg.Engine.CommissionRate)

		filter := byBooking(bookingID)
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "current_bucket",
			Field:    model.FieldBucket,
			Value:    model.BucketNone,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})

		affected, err := s.repo.UpdateAffected(ctx, map[string]any{
			model.FieldGrossAmount:      entry.GrossAmount,
			model.FieldCommissionRate:   entry.CommissionRate,
			model.FieldCommissionAmount: entry.CommissionAmount,
			model.FieldNetAmount:        entry.NetAmount,
			model.FieldAdjustmentAmount: entry.AdjustmentAmount,
			model.FieldBucket:           entry.Bucket,
			model.FieldHoldUntil:        holdUntil,
			model.FieldCompletedAt:      now,
			constant.FieldModifiedAt:    now,
			constant.FieldModifiedBy:    actor,
		}, filter)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if affected == 0 {
			return failure.Conflict("ledger entry changed concurrently") //nolint:wrapcheck
		}

		changed = true

		return s.emitter.Emit(ctx, bucketChanged(entry, model.BucketNone, model.BucketPending, now)) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to settle completed booking")

		return fmt.Errorf("failed to settle completed booking: %w", err)
	}

	if changed {
		s.invalidate(ctx, walkerID)
		s.emitter.Notify()
	}

	return nil
}

func (s *serviceImpl) PromoteMatured(ctx context.Context, now time.Time) (promoted int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.PromoteMatured")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	for {
		candidates, err := s.repo.MaturedCandidates(ctx, now, promoteBatch)
		if err != nil {
			log.Error().Err(err).Msg("failed to list matured ledger entries")

			return promoted, fmt.Errorf("failed to list matured ledger entries: %w", err)
		}

		batch := 0

		for _, candidate := range candidates {
			ok, err := s.promote(ctx, candidate, now)
			if err != nil {
				if failure.IsRetryable(err) {
					log.Warn().Err(err).Str("bookingID", candidate.BookingID).Msg("skipping busy ledger entry")

					continue
				}

				log.Error().Err(err).Str("bookingID", candidate.BookingID).Msg("failed to promote ledger entry")

				return promoted, fmt.Errorf("failed to promote ledger entry: %w", err)
			}

			if ok {
				batch++
			}
		}

		promoted += batch

		if len(candidates) < promoteBatch || batch == 0 {
			break
		}
	}

	scope.SetAttribute("promoted", promoted)

	if promoted > 0 {
		log.Info().Int("promoted", promoted).Msg("promoted matured ledger entries")
		s.emitter.Notify()
	}

	return promoted, nil
}

// promote re-checks the candidate under its booking lock. The conditional
// update loses to a freeze that committed first.
func (s *serviceImpl) promote(ctx context.Context, candidate model.LedgerEntry, now time.Time) (bool, error) {
	promoted := false

	err := s.withBooking(ctx, candidate.BookingID, func(ctx context.Context) error {
		filter := byBooking(candidate.BookingID)
		filter.Filters = append(filter.Filters,
			gDto.Filter{Field: model.FieldBucket, Value: model.BucketPending, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldFrozen, Value: false, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldHoldUntil, Value: now, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
		)

		affected, err := s.repo.UpdateAffected(ctx, map[string]any{
			model.FieldBucket:        model.BucketAvailable,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: constant.ActorSystem,
		}, filter)
		if err != nil || affected == 0 {
			return err //nolint:wrapcheck
		}

		promoted = true

		return s.emitter.Emit(ctx, bucketChanged(candidate, model.BucketPending, model.BucketAvailable, now)) //nolint:wrapcheck
	})
	if err != nil {
		return false, err
	}

	if promoted {
		s.invalidate(ctx, candidate.WalkerID)
	}

	return promoted, nil
}

func (s *serviceImpl) MarkFrozen(ctx context.Context, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.MarkFrozen")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.setFrozen(ctx, bookingID, true); err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to freeze ledger entry")

		return fmt.Errorf("failed to freeze ledger entry: %w", err)
	}

	return nil
}

func (s *serviceImpl) UnmarkFrozen(ctx context.Context, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.UnmarkFrozen")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.setFrozen(ctx, bookingID, false); err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to unfreeze ledger entry")

		return fmt.Errorf("failed to unfreeze ledger entry: %w", err)
	}

	return nil
}

// setFrozen is a no-op for bookings without an entry; a dispute can be opened
// before any money is earmarked.
func (s *serviceImpl) setFrozen(ctx context.Context, bookingID string, frozen bool) error {
	walkerID := constant.Empty

	err := s.withBooking(ctx, bookingID, func(ctx context.Context) error {
		entry, err := s.repo.GetForUpdate(ctx, byBooking(bookingID))
		if err != nil {
			return err //nolint:wrapcheck
		}

		if entry.BookingID == constant.Empty || entry.Frozen == frozen {
			return nil
		}

		_, err = s.repo.UpdateAffected(ctx, map[string]any{
			model.FieldFrozen:        frozen,
			constant.FieldModifiedAt: s.clock.Now(),
			constant.FieldModifiedBy: shared.ActorOrSystem(ctx),
		}, byBooking(bookingID))
		if err != nil {
			return err //nolint:wrapcheck
		}

		walkerID = entry.WalkerID

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, walkerID)

	return nil
}

func (s *serviceImpl) Reverse(ctx context.Context, bookingID, reason string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.Reverse")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	walkerID := constant.Empty

	err = s.withBooking(ctx, bookingID, func(ctx context.Context) error {
		entry, err := s.repo.GetForUpdate(ctx, byBooking(bookingID))
		if err != nil {
			return err //nolint:wrapcheck
		}

		if entry.BookingID == constant.Empty {
			return nil
		}

		switch entry.Bucket {
		case model.BucketReversed:
			return nil
		case model.BucketPaid:
			return failure.Conflict("ledger entry was already paid out") //nolint:wrapcheck
		}

		now := s.clock.Now()

		filter := byBooking(bookingID)
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "current_bucket",
			Field:    model.FieldBucket,
			Value:    entry.Bucket,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})

		affected, err := s.repo.UpdateAffected(ctx, map[string]any{
			model.FieldBucket:         model.BucketReversed,
			model.FieldReversalReason: reason,
			model.FieldReversedAt:     now,
			constant.FieldModifiedAt:  now,
			constant.FieldModifiedBy:  shared.ActorOrSystem(ctx),
		}, filter)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if affected == 0 {
			return failure.Conflict("ledger entry changed concurrently") //nolint:wrapcheck
		}

		walkerID = entry.WalkerID

		return s.emitter.Emit(ctx, bucketChanged(entry, entry.Bucket, model.BucketReversed, now)) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to reverse ledger entry")

		return fmt.Errorf("failed to reverse ledger entry: %w", err)
	}

	if walkerID != constant.Empty {
		s.invalidate(ctx, walkerID)
		s.emitter.Notify()
	}

	return nil
}

func (s *serviceImpl) Adjust(ctx context.Context, bookingID, disputeID string, amount money.Amount, reason string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.Adjust")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !amount.IsPositive() {
		return failure.Validation("adjustment amount must be positive") //nolint:wrapcheck
	}

	walkerID := constant.Empty

	err = s.withBooking(ctx, bookingID, func(ctx context.Context) error {
		entry, err := s.repo.GetForUpdate(ctx, byBooking(bookingID))
		if err != nil {
			return err //nolint:wrapcheck
		}

		if entry.BookingID == constant.Empty {
			return failure.NotFound(model.EntityName) //nolint:wrapcheck
		}

		if entry.Bucket == model.BucketPaid || entry.Bucket == model.BucketReversed {
			return failure.Conflict("ledger entry is " + entry.Bucket) //nolint:wrapcheck
		}

		// A running booking has no split yet; the refund is held against its
		// projected net and carried into the completion settle.
		payable := entry.ProjectedPayable(s.cfg.Engine.CommissionRate)
		if amount > payable {
			return failure.Validation(fmt.Sprintf("refund %s exceeds payable %s", amount, payable)) //nolint:wrapcheck
		}

		now := s.clock.Now()
		previous := entry.AdjustmentAmount
		entry.AdjustmentAmount -= amount
		entry.MustBalance()

		err = s.repo.InsertAdjustment(ctx, model.LedgerAdjustment{
			ID:        uuid.NewString(),
			BookingID: bookingID,
			WalkerID:  entry.WalkerID,
			Amount:    -amount,
			Reason:    reason,
			DisputeID: disputeID,
			CreatedAt: now,
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		filter := byBooking(bookingID)
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "current_adjustment",
			Field:    model.FieldAdjustmentAmount,
			Value:    previous,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})

		affected, err := s.repo.UpdateAffected(ctx, map[string]any{
			model.FieldAdjustmentAmount: entry.AdjustmentAmount,
			constant.FieldModifiedAt:    now,
			constant.FieldModifiedBy:    shared.ActorOrSystem(ctx),
		}, filter)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if affected == 0 {
			return failure.Conflict("ledger entry changed concurrently") //nolint:wrapcheck
		}

		walkerID = entry.WalkerID

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to adjust ledger entry")

		return fmt.Errorf("failed to adjust ledger entry: %w", err)
	}

	s.invalidate(ctx, walkerID)

	return nil
}

func (s *serviceImpl) RequestPayout(ctx context.Context, walkerID string) (res dto.PayoutResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.RequestPayout")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.authorize(ctx, walkerID); err != nil {
		return res, err
	}

	res, err = s.payout(ctx, walkerID)
	if err != nil {
		log.Error().Err(err).Str("walkerID", walkerID).Msg("failed to pay out walker")

		return res, fmt.Errorf("failed to pay out walker: %w", err)
	}

	return res, nil
}

// errNothingToPay rolls back a payout whose entries were taken by a concurrent run.
var errNothingToPay = errors.New("no available ledger entries")

// payout marks the whole available balance paid in one statement. The payout
// row goes in first so the entries can reference it; its totals are filled from
// the entries the update returned. An empty balance records nothing.
func (s *serviceImpl) payout(ctx context.Context, walkerID string) (res dto.PayoutResponse, err error) {
	empty := dto.PayoutResponse{WalkerID: walkerID, TotalAmount: money.Amount(0).String()}
	res = empty

	available, err := s.repo.Count(ctx, availableFilter(walkerID))
	if err != nil {
		return empty, err //nolint:wrapcheck
	}

	if available == 0 {
		return empty, nil
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		now := s.clock.Now()
		payoutID := uuid.NewString()

		err := s.repo.InsertPayout(ctx, model.Payout{
			ID:        payoutID,
			WalkerID:  walkerID,
			CreatedAt: now,
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		entries, err := s.repo.MarkPaid(ctx, walkerID, payoutID, shared.ActorOrSystem(ctx), now)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if len(entries) == 0 {
			return errNothingToPay
		}

		var total money.Amount

		evs := make([]events.Event, 0, len(entries))
		for _, entry := range entries {
			total += entry.Payable()
			evs = append(evs, bucketChanged(entry, model.BucketAvailable, model.BucketPaid, now))
		}

		if err = s.repo.SettlePayout(ctx, payoutID, total, len(entries)); err != nil {
			return err //nolint:wrapcheck
		}

		res.PayoutID = payoutID
		res.TotalAmount = total.String()
		res.EntryCount = len(entries)

		return s.emitter.Emit(ctx, evs...) //nolint:wrapcheck
	})
	if errors.Is(err, errNothingToPay) {
		return empty, nil
	}

	if err != nil {
		return dto.PayoutResponse{}, err //nolint:wrapcheck
	}

	log.Info().Str("walkerID", walkerID).Str("total", res.TotalAmount).Int("entries", res.EntryCount).Msg("walker paid out")
	s.invalidate(ctx, walkerID)
	s.emitter.Notify()

	return res, nil
}

func availableFilter(walkerID string) gDto.FilterGroup {
	return gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldWalkerID, Value: walkerID, Operator: gDto.FilterOperatorEq},
		gDto.Filter{Field: model.FieldBucket, Value: model.BucketAvailable, Operator: gDto.FilterOperatorEq},
		gDto.Filter{Field: model.FieldFrozen, Value: false, Operator: gDto.FilterOperatorEq},
	}}
}

func (s *serviceImpl) PayoutAll(ctx context.Context) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.PayoutAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	walkers, err := s.repo.WalkersWithAvailable(ctx, payoutWalkers)
	if err != nil {
		log.Error().Err(err).Msg("failed to list walkers with available earnings")

		return 0, fmt.Errorf("failed to list walkers with available earnings: %w", err)
	}

	for _, walkerID := range walkers {
		res, err := s.payout(ctx, walkerID)
		if err != nil {
			log.Error().Err(err).Str("walkerID", walkerID).Msg("failed to pay out walker")

			continue
		}

		if res.EntryCount > 0 {
			count++
		}
	}

	return count, nil
}

func (s *serviceImpl) GetEntry(ctx context.Context, bookingID string) (res dto.EntryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.GetEntry")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	entry, err := s.repo.Get(ctx, byBooking(bookingID))
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to get ledger entry")

		return res, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	if entry.BookingID == constant.Empty {
		return res, failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	if err = s.authorize(ctx, entry.WalkerID); err != nil {
		return res, err
	}

	adjustments, err := s.repo.Adjustments(ctx, bookingID)
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to get ledger adjustments")

		return res, fmt.Errorf("failed to get ledger adjustments: %w", err)
	}

	res.FromModel(entry)
	res.WithAdjustments(adjustments)

	return res, nil
}

func (s *serviceImpl) ListEntries(ctx context.Context, walkerID string, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetEntriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.ListEntries")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.authorize(ctx, walkerID); err != nil {
		return res, err
	}

	scoped := gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldWalkerID, Value: walkerID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		filter,
	}}

	total, err := s.repo.Count(ctx, scoped)
	if err != nil {
		log.Error().Err(err).Msg("failed to count ledger entries")

		return res, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	entries, err := s.repo.GetAll(ctx, params, scoped)
	if err != nil {
		log.Error().Err(err).Msg("failed to get ledger entries")

		return res, fmt.Errorf("failed to get ledger entries: %w", err)
	}

	res.FromModels(entries, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) Summary(ctx context.Context, walkerID string) (res dto.SummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.Summary")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.authorize(ctx, walkerID); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(cacheSummary, walkerID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for earnings summary")

		return res, nil
	}

	buckets, err := s.repo.BucketTotals(ctx, walkerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate ledger buckets")

		return res, fmt.Errorf("failed to aggregate ledger buckets: %w", err)
	}

	months := lastMonths(s.clock.Now(), summaryMonths)
	since, _ := time.ParseInLocation(constant.MonthFormat, months[0], timezone.GetLocation())

	monthly, err := s.repo.MonthlyEarnings(ctx, walkerID, since)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate monthly earnings")

		return res, fmt.Errorf("failed to aggregate monthly earnings: %w", err)
	}

	res.FromModel(walkerID, model.Summary{Buckets: buckets, Monthly: monthly}, months)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save earnings summary to cache")
	}

	return res, nil
}

// lastMonths lists n months ending with the month of now, oldest first.
func lastMonths(now time.Time, n int) []string {
	start := timezone.StartOfMonth(now)

	months := make([]string, n)
	for i := range n {
		months[i] = start.AddDate(0, i-n+1, 0).Format(constant.MonthFormat)
	}

	return months
}

func (s *serviceImpl) Backfill(ctx context.Context) (created int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.Backfill")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	for {
		candidates, err := s.repo.BackfillCandidates(ctx, backfillBatch)
		if err != nil {
			log.Error().Err(err).Msg("failed to list backfill candidates")

			return created, fmt.Errorf("failed to list backfill candidates: %w", err)
		}

		batch := 0

		for _, candidate := range candidates {
			ok, err := s.backfill(ctx, candidate)
			if err != nil {
				log.Error().Err(err).Str("bookingID", candidate.BookingID).Msg("failed to backfill ledger entry")

				return created, fmt.Errorf("failed to backfill ledger entry: %w", err)
			}

			if ok {
				batch++
			}
		}

		created += batch

		if len(candidates) < backfillBatch || batch == 0 {
			break
		}
	}

	log.Info().Int("created", created).Msg("ledger backfill finished")

	if created > 0 {
		s.emitter.Notify()
	}

	return created, nil
}

// backfill settles a historical booking as if it had completed through the engine.
func (s *serviceImpl) backfill(ctx context.Context, candidate model.BackfillCandidate) (bool, error) {
	created := false

	err := s.withBooking(ctx, candidate.BookingID, func(ctx context.Context) error {
		now := s.clock.Now()
		completedAt := candidate.CompletedAt
		holdUntil := completedAt.Add(s.cfg.Engine.SettlementHold)

		entry := model.LedgerEntry{
			BookingID:   candidate.BookingID,
			WalkerID:    candidate.WalkerID,
			GrossAmount: candidate.GrossAmount,
			Bucket:      model.BucketPending,
			HoldUntil:   &holdUntil,
			CompletedAt: &completedAt,
			Metadata:    gModel.NewMetadata(constant.ActorSystem, now),
		}
		entry.Settle(s.cfg.Engine.CommissionRate)

		ok, err := s.repo.InsertIfAbsent(ctx, entry)
		if err != nil || !ok {
			return err //nolint:wrapcheck
		}

		created = true

		return s.emitter.Emit(ctx, bucketChanged(entry, model.BucketNone, model.BucketPending, now)) //nolint:wrapcheck
	})
	if err != nil {
		return false, err
	}

	if created {
		s.invalidate(ctx, candidate.WalkerID)
	}

	return created, nil
}
