package main

import (
	"context"
	"dogwalking/config"
	"dogwalking/di"
	"dogwalking/helper"
	"dogwalking/shared/logger"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// @title Dog Walking Booking Engine API
// @version 1.0
// @description Booking lifecycle, walker settlement, disputes and referrals.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	app := di.InitializeApp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.Scheduler.Run(ctx)

	go func() {
		if err := app.Consumer.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Booking event consumer stopped")
		}
	}()

	app.HTTP.Serve()
}
