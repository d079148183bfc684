// Package scheduler drives the settlement sweep on a fixed interval and relays
// outbox events as soon as a commit signals there are new ones.
package scheduler

import (
	"context"
	"dogwalking/config"
	"dogwalking/internal/events"
	"dogwalking/internal/settlement"
	"dogwalking/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

type Scheduler struct {
	sweeper  settlement.Sweeper
	emitter  events.Emitter
	interval time.Duration
}

func New(sweeper settlement.Sweeper, emitter events.Emitter, cfg *config.Config) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		emitter:  emitter,
		interval: cfg.Engine.Sweep.Interval,
	}
}

func systemContext(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ActorSystem)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleInternal)
}

// Run sweeps once at start, then every interval, until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ctx = systemContext(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.interval).Msg("Settlement scheduler started")

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Settlement scheduler stopped")

			return
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.emitter.Notifications():
			if _, err := s.emitter.Relay(ctx); err != nil {
				log.Warn().Err(err).Msg("outbox relay failed, next sweep retries")
			}
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	if _, err := s.sweeper.Sweep(ctx); err != nil {
		log.Error().Err(err).Msg("settlement sweep failed")
	}
}
