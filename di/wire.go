//go:build wireinject
// +build wireinject

package di

import (
	"dogwalking/config"
	"dogwalking/infras/jwt"
	"dogwalking/infras/kafka"
	"dogwalking/infras/otel"
	"dogwalking/infras/postgres"
	"dogwalking/infras/rabbitmq"
	"dogwalking/infras/redis"
	"dogwalking/infras/s3"
	"dogwalking/internal/events"
	"dogwalking/internal/settlement"
	"dogwalking/permissions"
	"dogwalking/shared/cache"
	"dogwalking/shared/clock"
	"dogwalking/shared/keylock"
	gRepo "dogwalking/shared/repository"
	"dogwalking/transport/event"
	"dogwalking/transport/http"
	"dogwalking/transport/http/middleware"
	"dogwalking/transport/http/router"
	"dogwalking/transport/scheduler"

	bookingRepository "dogwalking/internal/domains/booking/repository"
	bookingService "dogwalking/internal/domains/booking/service"
	disputeRepository "dogwalking/internal/domains/dispute/repository"
	disputeService "dogwalking/internal/domains/dispute/service"
	ledgerRepository "dogwalking/internal/domains/ledger/repository"
	ledgerService "dogwalking/internal/domains/ledger/service"
	proofService "dogwalking/internal/domains/proof/service"
	referralRepository "dogwalking/internal/domains/referral/repository"
	referralService "dogwalking/internal/domains/referral/service"
	reviewRepository "dogwalking/internal/domains/review/repository"
	reviewService "dogwalking/internal/domains/review/service"

	bookingHandler "dogwalking/internal/handlers/booking"
	disputeHandler "dogwalking/internal/handlers/dispute"
	ledgerHandler "dogwalking/internal/handlers/ledger"
	referralHandler "dogwalking/internal/handlers/referral"
	reviewHandler "dogwalking/internal/handlers/review"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	rabbitmq.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	clock.New,
	keylock.New,
	gRepo.NewTransactor,
)

var eventing = wire.NewSet(
	events.NewRepository,
	events.NewPublisher,
	events.NewEmitter,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.NewCancellationPolicy,
	bookingService.New,
	proofService.New,
)

var ledgerDomain = wire.NewSet(
	ledgerRepository.New,
	ledgerService.New,
	settlement.NewSweeper,
)

var disputeDomain = wire.NewSet(
	disputeRepository.NewDispute,
	disputeRepository.NewIncident,
	disputeService.New,
)

var referralDomain = wire.NewSet(
	referralRepository.New,
	referralService.NewCodeSource,
	referralService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var domains = wire.NewSet(
	bookingDomain,
	ledgerDomain,
	disputeDomain,
	referralDomain,
	reviewDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	ledgerHandler.New,
	disputeHandler.New,
	referralHandler.New,
	reviewHandler.New,
	router.New,
)

var workers = wire.NewSet(
	scheduler.New,
	event.New,
)

// InitializeService builds the HTTP surface alone, for serverless runtimes.
func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		eventing,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

// InitializeApp builds the HTTP server and the background workers around one
// shared emitter so commits wake the relay loop.
func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		eventing,
		domains,
		routing,
		workers,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}

func InitializeSweeper() settlement.Sweeper {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		kafka.New,
		rabbitmq.New,
		sharedHelpers,
		eventing,
		ledgerRepository.New,
		ledgerService.New,
		settlement.NewSweeper,
	)

	return nil
}
