package keylock

import (
	"context"
	"dogwalking/infras/otel"
	"dogwalking/shared/failure"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName = "keylock"

	minRetryDelay = 20 * time.Millisecond
	maxRetryDelay = 250 * time.Millisecond
	releaseBudget = 2 * time.Second
)

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = goRedis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a lease lock shared by every engine instance. A holder that outlives
// ttl loses the lease; the conditional status updates still reject its writes.
type Redis struct {
	client *goRedis.Client
	otel   otel.Otel
	ttl    time.Duration
	wait   time.Duration
}

func NewRedis(client *goRedis.Client, otel otel.Otel, ttl, wait time.Duration) *Redis {
	return &Redis{
		client: client,
		otel:   otel,
		ttl:    ttl,
		wait:   wait,
	}
}

func (r *Redis) Acquire(ctx context.Context, key string) (_ context.Context, _ func(), err error) {
	if held(ctx, key) {
		return ctx, noop, nil
	}

	spanCtx, scope := r.otel.NewScope(ctx, otelScopeName, otelScopeName+".Acquire")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("lock.key", key)

	redisKey := keyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(r.wait)
	delay := minRetryDelay

	for {
		ok, err := r.client.SetNX(spanCtx, redisKey, token, r.ttl).Result()
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to acquire redis lock")

			return ctx, noop, failure.DependencyUnavailable("lock store unavailable")
		}

		if ok {
			break
		}

		if time.Now().Add(delay).After(deadline) {
			return ctx, noop, failure.ResourceBusy("timed out waiting for lock on " + key)
		}

		select {
		case <-ctx.Done():
			return ctx, noop, failure.ResourceBusy("lock wait cancelled for " + key)
		case <-time.After(delay):
		}

		delay = min(delay*2, maxRetryDelay)
	}

	var once sync.Once

	release := func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseBudget)
			defer cancel()

			err := releaseScript.Run(releaseCtx, r.client, []string{redisKey}, token).Err()
			if err != nil && !errors.Is(err, goRedis.Nil) {
				log.Error().Err(err).Str("key", key).Msg("failed to release redis lock")
			}
		})
	}

	return withHeld(ctx, key), release, nil
}
