// Package settlement runs the periodic work that moves walker money forward
// without a request behind it.
package settlement

//go:generate go run go.uber.org/mock/mockgen -source=./sweeper.go -destination=./mocks/sweeper_mock.go -package=mocks

import (
	"context"
	"dogwalking/config"
	"dogwalking/infras/otel"
	"dogwalking/internal/domains/ledger/model/dto"
	ledgerService "dogwalking/internal/domains/ledger/service"
	"dogwalking/internal/events"
	"dogwalking/shared/clock"
	"dogwalking/shared/constant"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Sweeper interface {
	// Sweep promotes matured entries, optionally pays out every walker and
	// flushes the outbox. It is safe to run concurrently with itself.
	Sweep(ctx context.Context) (dto.SweepResponse, error)
}

type sweeperImpl struct {
	ledger  ledgerService.Ledger
	emitter events.Emitter
	clock   clock.Clock
	cfg     *config.Config
	otel    otel.Otel
}

func NewSweeper(ledger ledgerService.Ledger, emitter events.Emitter, clk clock.Clock, cfg *config.Config, otel otel.Otel) Sweeper {
	return &sweeperImpl{
		ledger:  ledger,
		emitter: emitter,
		clock:   clk,
		cfg:     cfg,
		otel:    otel,
	}
}

func (s *sweeperImpl) Sweep(ctx context.Context) (res dto.SweepResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSchedulerScopeName, constant.OtelSchedulerScopeName+".settlement.Sweep")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res.Promoted, err = s.ledger.PromoteMatured(ctx, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to promote matured entries")

		return res, fmt.Errorf("failed to promote matured entries: %w", err)
	}

	if s.cfg.Engine.Sweep.AutoPayout {
		res.Payouts, err = s.ledger.PayoutAll(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to pay out walkers")

			return res, fmt.Errorf("failed to pay out walkers: %w", err)
		}
	}

	// A broker outage leaves events in the outbox for the next sweep.
	res.Relayed, err = s.emitter.Relay(ctx)
	if err != nil {
		log.Warn().Err(err).Int("relayed", res.Relayed).Msg("outbox relay stopped early")

		err = nil
	}

	scope.SetAttributes(map[string]any{
		"settlement.promoted": res.Promoted,
		"settlement.paid_out": res.Payouts,
		"settlement.relayed":  res.Relayed,
	})

	log.Info().Int("promoted", res.Promoted).Int("paidOut", res.Payouts).Int("relayed", res.Relayed).Msg("settlement sweep finished")

	return res, nil
}
