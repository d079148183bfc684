package events

import (
	"context"
	"dogwalking/infras/otel"
	"dogwalking/shared/clock"
	"dogwalking/shared/constant"
	gRepo "dogwalking/shared/repository"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultRelayBatch = 100

type Emitter interface {
	// Emit stores events in the outbox, joining the transaction in ctx if there is one.
	Emit(ctx context.Context, evs ...Event) error
	// Notify wakes the relay loop after a commit.
	Notify()
	Notifications() <-chan struct{}
	// Relay publishes pending outbox events in order and returns how many were delivered.
	// It stops at the first broker failure so later events never overtake earlier ones.
	Relay(ctx context.Context) (int, error)
}

type emitterImpl struct {
	repo       Repository
	publisher  Publisher
	transactor gRepo.Transactor
	clock      clock.Clock
	otel       otel.Otel
	batch      int
	wake       chan struct{}
}

func NewEmitter(repo Repository, publisher Publisher, transactor gRepo.Transactor, clk clock.Clock, otel otel.Otel) Emitter {
	return &emitterImpl{
		repo:       repo,
		publisher:  publisher,
		transactor: transactor,
		clock:      clk,
		otel:       otel,
		batch:      defaultRelayBatch,
		wake:       make(chan struct{}, 1),
	}
}

func (e *emitterImpl) Emit(ctx context.Context, evs ...Event) (err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Emit")
	defer scope.End()

	headers := map[string]string{}
	e.otel.Inject(ctx, headers)

	rawHeaders, err := json.Marshal(headers)
	if err != nil {
		return fmt.Errorf("failed to marshal event headers: %w", err)
	}

	for _, ev := range evs {
		payload, err := json.Marshal(ev)
		if err != nil {
			scope.TraceError(err)

			return fmt.Errorf("failed to marshal %s event: %w", ev.Topic(), err)
		}

		record := OutboxEvent{
			ID:        uuid.NewString(),
			Topic:     ev.Topic(),
			EventKey:  ev.Key(),
			Payload:   payload,
			Headers:   rawHeaders,
			CreatedAt: e.clock.Now(),
		}

		if err = e.repo.Insert(ctx, record); err != nil {
			log.Error().Err(err).Str("topic", record.Topic).Msg("failed to store outbox event")
			scope.TraceError(err)

			return fmt.Errorf("failed to store %s event: %w", record.Topic, err)
		}
	}

	return nil
}

func (e *emitterImpl) Notify() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *emitterImpl) Notifications() <-chan struct{} {
	return e.wake
}

func (e *emitterImpl) Relay(ctx context.Context) (total int, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Relay")
	defer scope.End()

	for {
		delivered, full, err := e.relayBatch(ctx)
		total += delivered

		if err != nil {
			scope.TraceError(err)

			return total, err
		}

		if !full {
			return total, nil
		}
	}
}

func (e *emitterImpl) relayBatch(ctx context.Context) (delivered int, full bool, err error) {
	var publishErr error

	err = e.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		pending, err := e.repo.LockPending(ctx, e.batch)
		if err != nil {
			return err
		}

		full = len(pending) == e.batch

		for _, record := range pending {
			carrier := map[string]string{}
			if len(record.Headers) > 0 {
				if err := json.Unmarshal(record.Headers, &carrier); err != nil {
					log.Warn().Err(err).Str("id", record.ID).Msg("ignoring malformed outbox headers")
				}
			}

			pubCtx := e.otel.Extract(ctx, carrier)

			if publishErr = e.publisher.Publish(pubCtx, record.Topic, record.EventKey, carrier, record.Payload); publishErr != nil {
				log.Error().Err(publishErr).Str("id", record.ID).Str("topic", record.Topic).Msg("failed to publish outbox event")

				full = false

				return e.repo.MarkFailed(ctx, record.ID, publishErr.Error())
			}

			if err := e.repo.MarkPublished(ctx, record.ID, e.clock.Now()); err != nil {
				return err
			}

			delivered++
		}

		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to relay outbox events: %w", err)
	}

	if publishErr != nil {
		return delivered, false, fmt.Errorf("failed to publish event: %w", publishErr)
	}

	if delivered > 0 {
		log.Info().Int("delivered", delivered).Msg("relayed outbox events")
	}

	return delivered, full, nil
}
