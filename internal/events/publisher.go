package events

import (
	"context"
	"dogwalking/config"
	"dogwalking/infras/kafka"
	"dogwalking/infras/rabbitmq"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=./mocks/publisher_mock.go -package=mocks

// Publisher hands one serialized event to the broker.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, headers map[string]string, payload []byte) error
}

type kafkaPublisher struct {
	client kafka.Client
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic, key string, headers map[string]string, payload []byte) error {
	err := p.client.SendMessages(ctx, topic, kafka.Message{
		Key:     key,
		Value:   json.RawMessage(payload),
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("kafka publish %s: %w", topic, err)
	}

	return nil
}

// rabbitPublisher routes by topic on the configured topic exchange.
type rabbitPublisher struct {
	client rabbitmq.Client
}

func (p *rabbitPublisher) Publish(ctx context.Context, topic, key string, headers map[string]string, payload []byte) error {
	withKey := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		withKey[k] = v
	}

	withKey[HeaderEventKey] = key

	if err := p.client.Publish(ctx, topic, withKey, json.RawMessage(payload)); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", topic, err)
	}

	return nil
}

// HeaderEventKey carries the partition key on brokers without native keys.
const HeaderEventKey = "x-event-key"

func NewPublisher(cfg *config.Config, kafkaClient kafka.Client, rabbitClient rabbitmq.Client) Publisher {
	if cfg.Engine.Events.Driver == config.EventsDriverRabbitMQ {
		log.Info().Str("exchange", cfg.RabbitMQ.Exchange).Msg("Publishing events to RabbitMQ")

		return &rabbitPublisher{client: rabbitClient}
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Publishing events to Kafka")

	return &kafkaPublisher{client: kafkaClient}
}
