// Package keylock serializes work per key, typically per booking id.
//
// A lock taken through Acquire is recorded in the returned context. Acquiring the
// same key again with that context succeeds immediately, so a service holding a
// booking lock can call into another service that locks the same booking.
package keylock

import (
	"context"
	"dogwalking/config"
	"dogwalking/infras/otel"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	keyPrefix = "lock:"

	defaultTTL         = 10 * time.Second
	defaultWaitTimeout = 5 * time.Second
)

type Locker interface {
	// Acquire blocks until key is held, ctx is done or the wait timeout passes.
	// The returned release func is safe to call more than once.
	Acquire(ctx context.Context, key string) (context.Context, func(), error)
}

type heldKey string

func held(ctx context.Context, key string) bool {
	v, _ := ctx.Value(heldKey(key)).(bool)

	return v
}

func withHeld(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, heldKey(key), true)
}

func noop() {}

// BookingKey is the lock key for a booking and everything hanging off it.
func BookingKey(bookingID string) string {
	return "booking:" + bookingID
}

// New picks the lock driver from configuration.
func New(cfg *config.Config, client *goRedis.Client, otel otel.Otel) Locker {
	ttl := cfg.Engine.Lock.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	wait := cfg.Engine.Lock.WaitTimeout
	if wait <= 0 {
		wait = defaultWaitTimeout
	}

	if cfg.Engine.Lock.Driver == config.LockDriverMemory || client == nil {
		log.Info().Msg("Using in-process booking locks")

		return NewMemory(wait)
	}

	log.Info().Dur("ttl", ttl).Msg("Using redis booking locks")

	return NewRedis(client, otel, ttl, wait)
}
