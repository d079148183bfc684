package service

import (
	"context"
	"dogwalking/internal/domains/booking/model"
	"dogwalking/internal/events"
	"dogwalking/shared"
	"dogwalking/shared/constant"
	gDto "dogwalking/shared/dto"
	"dogwalking/shared/failure"
	"dogwalking/shared/keylock"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// step describes one status change. Only target is required.
type step struct {
	target func(b model.Booking) string
	// allowed defaults to the transition table.
	allowed func(b model.Booking, to string) bool
	// authorize is skipped for internal callers.
	authorize func(b model.Booking, actor string) error
	// apply runs inside the transaction before the status write and returns
	// extra columns to persist with it.
	apply func(ctx context.Context, b *model.Booking, now time.Time) (map[string]any, error)
}

func fixed(status string) func(model.Booking) string {
	return func(model.Booking) string { return status }
}

func walkerOnly(action string) func(model.Booking, string) error {
	return func(b model.Booking, actor string) error {
		if actor == constant.Empty || actor != b.WalkerID {
			return failure.UnauthorizedActor("only the walker may " + action + " this booking") // nolint:wrapcheck
		}

		return nil
	}
}

func statusChanged(b model.Booking, from, actor string, now time.Time) events.BookingStatusChanged {
	ev := events.BookingStatusChanged{
		BookingID:        b.ID,
		OwnerID:          b.OwnerID,
		WalkerID:         b.WalkerID,
		From:             from,
		To:               b.Status,
		ActorID:          actor,
		LateCancellation: b.LateCancellation,
		Timestamp:        now,
	}

	if b.Status == model.StatusCancelled && b.CancellationReason != nil {
		ev.Reason = *b.CancellationReason
	}

	return ev
}

// transition serializes on the booking key, re-reads the row under lock and
// writes the new status conditionally on the status it read. Requesting the
// status the booking already has is a no-op.
func (s *serviceImpl) transition(ctx context.Context, id string, st step) (res model.Booking, err error) {
	ctx, release, err := s.locker.Acquire(ctx, keylock.BookingKey(id))
	if err != nil {
		return res, err // nolint:wrapcheck
	}
	defer release()

	changed := false

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		booking, err := s.repo.GetForUpdate(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return err // nolint:wrapcheck
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if booking.IsTerminal() {
			return failure.TerminalState(fmt.Sprintf("booking is already %s", booking.Status)) // nolint:wrapcheck
		}

		actor := shared.ActorOrSystem(ctx)

		if st.authorize != nil && !shared.IsPrivileged(ctx) {
			id, _ := shared.Actor(ctx)
			if err := st.authorize(booking, id); err != nil {
				return err
			}
		}

		from := booking.Status
		to := st.target(booking)

		if from == to {
			res = booking

			return nil
		}

		allowed := st.allowed
		if allowed == nil {
			allowed = func(b model.Booking, to string) bool { return b.CanTransitionTo(to) }
		}

		if !allowed(booking, to) {
			return failure.InvalidTransition(fmt.Sprintf("cannot move booking from %s to %s", from, to)) // nolint:wrapcheck
		}

		now := s.clock.Now()

		fields := map[string]any{}

		if st.apply != nil {
			extra, err := st.apply(ctx, &booking, now)
			if err != nil {
				return err
			}

			fields = extra
		}

		fields[model.FieldStatus] = to
		fields[constant.FieldModifiedAt] = now
		fields[constant.FieldModifiedBy] = actor

		filter := shared.FilterByID(id, model.FieldID, model.TableName)
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "current_status",
			Field:    model.FieldStatus,
			Value:    from,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})

		affected, err := s.repo.UpdateAffected(ctx, fields, filter)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if affected == 0 {
			return failure.Conflict("booking status changed concurrently") // nolint:wrapcheck
		}

		booking.Status = to
		booking.ModifiedAt = now
		booking.ModifiedBy = actor
		res = booking
		changed = true

		return s.emitter.Emit(ctx, statusChanged(booking, from, actor, now)) // nolint:wrapcheck
	})
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	if changed {
		s.emitter.Notify()

		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Str("bookingID", id).Msg("failed to invalidate booking cache")
		}

		shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)
	}

	return res, nil
}
