package main

import (
	"context"
	"dogwalking/config"
	"dogwalking/di"
	"dogwalking/internal/domains/ledger/model/dto"
	"dogwalking/shared/constant"
	"dogwalking/shared/logger"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// Triggered by an EventBridge schedule.
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	sweeper := di.InitializeSweeper()

	lambda.Start(func(ctx context.Context, _ events.CloudWatchEvent) (dto.SweepResponse, error) {
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ActorSystem)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleInternal)

		res, err := sweeper.Sweep(ctx)
		if err != nil {
			return res, fmt.Errorf("settlement sweep: %w", err)
		}

		return res, nil
	})
}
