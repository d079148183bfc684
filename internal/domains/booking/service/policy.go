package service

import (
	"dogwalking/config"
	"dogwalking/shared/money"
	"time"
)

// CancellationPolicy decides what a cancellation means for the owner.
type CancellationPolicy interface {
	// IsLate reports whether cancelling at now counts as a late cancellation.
	IsLate(scheduledAt, now time.Time) bool
	// Fee is the amount charged for a cancellation. The engine records it but
	// does not collect it.
	Fee(gross money.Amount, late bool) money.Amount
}

type thresholdPolicy struct {
	threshold time.Duration
}

// NewCancellationPolicy flags cancellations closer to the walk than the
// configured threshold and never charges a fee.
func NewCancellationPolicy(cfg *config.Config) CancellationPolicy {
	return thresholdPolicy{threshold: cfg.Engine.LateCancellationThreshold}
}

func (p thresholdPolicy) IsLate(scheduledAt, now time.Time) bool {
	return scheduledAt.Sub(now) < p.threshold
}

func (thresholdPolicy) Fee(money.Amount, bool) money.Amount {
	return 0
}
