// Package event consumes the engine's own booking events to trigger work that
// must not run inside the booking transaction, such as referral rewards.
package event

import (
	"context"
	"dogwalking/config"
	"dogwalking/infras/kafka"
	"dogwalking/infras/otel"
	"dogwalking/infras/rabbitmq"
	bookingModel "dogwalking/internal/domains/booking/model"
	referralService "dogwalking/internal/domains/referral/service"
	"dogwalking/internal/events"
	"dogwalking/shared/constant"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type Consumer struct {
	cfg      *config.Config
	kafka    kafka.Client
	rabbit   rabbitmq.Client
	referral referralService.Referral
	otel     otel.Otel
}

func New(cfg *config.Config, kafkaClient kafka.Client, rabbitClient rabbitmq.Client, referral referralService.Referral, otel otel.Otel) *Consumer {
	return &Consumer{
		cfg:      cfg,
		kafka:    kafkaClient,
		rabbit:   rabbitClient,
		referral: referral,
		otel:     otel,
	}
}

// Run blocks until ctx is done, consuming from the configured broker.
func (c *Consumer) Run(ctx context.Context) error {
	if c.cfg.Engine.Events.Driver == config.EventsDriverRabbitMQ {
		log.Info().Str("queue", c.cfg.RabbitMQ.Queue).Msg("Consuming booking events from RabbitMQ")

		err := c.rabbit.Consume(ctx, c.cfg.RabbitMQ.Queue, []string{events.TopicBookingStatusChanged}, c.HandleDelivery)
		if err != nil {
			return fmt.Errorf("failed to consume booking events: %w", err)
		}

		return nil
	}

	log.Info().Str("group", c.cfg.Kafka.ConsumerGroup).Msg("Consuming booking events from Kafka")

	c.kafka.Consume(ctx, c.cfg.Kafka.ConsumerGroup, events.TopicBookingStatusChanged, c.HandleMessage)

	return nil
}

func (c *Consumer) HandleMessage(ctx context.Context, msg kafkaGo.Message) error {
	return c.handle(ctx, kafka.Headers(msg), msg.Value)
}

func (c *Consumer) HandleDelivery(ctx context.Context, _ string, headers map[string]string, body []byte) error {
	return c.handle(ctx, headers, body)
}

func (c *Consumer) handle(ctx context.Context, headers map[string]string, body []byte) (err error) {
	ctx = c.otel.Extract(ctx, headers)

	ctx, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".BookingStatusChanged")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var ev events.BookingStatusChanged

	// Undecodable payloads are acked and dropped.
	if err := json.Unmarshal(body, &ev); err != nil {
		log.Warn().Err(err).Msg("dropping malformed booking event")

		return nil
	}

	if ev.To != bookingModel.StatusCompleted {
		return nil
	}

	scope.SetAttribute("booking.id", ev.BookingID)

	ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ActorSystem)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleInternal)

	if err = c.referral.OnBookingCompleted(ctx, ev.BookingID, ev.OwnerID); err != nil {
		log.Error().Err(err).Str("bookingID", ev.BookingID).Msg("failed to apply referral trigger")

		return fmt.Errorf("failed to apply referral trigger: %w", err)
	}

	return nil
}
