package rabbitmq

import (
	"context"
	"dogwalking/config"
	"dogwalking/shared/constant"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const exchangeKind = "topic"

var ErrNotConfigured = errors.New("rabbitmq url is not configured")

// Handler processes one delivery. An error nacks the delivery back onto the queue.
type Handler func(ctx context.Context, routingKey string, headers map[string]string, body []byte) error

type Client interface {
	Publish(ctx context.Context, routingKey string, headers map[string]string, value any) error
	Consume(ctx context.Context, queue string, routingKeys []string, handler Handler) error
	Close() error
}

type rabbitClientImpl struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// New returns a client that dials on first use, so that a deployment running on
// Kafka never needs a reachable broker.
func New(config *config.Config) Client {
	return &rabbitClientImpl{
		url:      config.RabbitMQ.URL,
		exchange: config.RabbitMQ.Exchange,
	}
}

func (r *rabbitClientImpl) channel() (*amqp.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil && !r.ch.IsClosed() {
		return r.ch, nil
	}

	if r.url == "" {
		return nil, ErrNotConfigured
	}

	if r.conn == nil || r.conn.IsClosed() {
		conn, err := amqp.Dial(r.url)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}

		r.conn = conn
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err = ch.ExchangeDeclare(r.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()

		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	log.Info().Str("exchange", r.exchange).Msg("RabbitMQ channel opened")

	r.ch = ch

	return ch, nil
}

func (r *rabbitClientImpl) Publish(ctx context.Context, routingKey string, headers map[string]string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ch, err := r.channel()
	if err != nil {
		return err
	}

	table := amqp.Table{}
	for key, val := range headers {
		table[key] = val
	}

	err = ch.PublishWithContext(ctx, r.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  constant.ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Headers:      table,
		Body:         body,
	})
	if err != nil {
		log.Error().Err(err).Str("routingKey", routingKey).Msg("Failed to publish message to RabbitMQ.")

		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Consume declares and binds a durable queue and blocks until ctx is done or the channel closes.
func (r *rabbitClientImpl) Consume(ctx context.Context, queue string, routingKeys []string, handler Handler) error {
	ch, err := r.channel()
	if err != nil {
		return err
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range routingKeys {
		if err = ch.QueueBind(q.Name, key, r.exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}

	deliveries, err := ch.ConsumeWithContext(ctx, q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", q.Name, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}

			headers := map[string]string{}
			for key, val := range delivery.Headers {
				if str, isStr := val.(string); isStr {
					headers[key] = str
				}
			}

			if err := handler(ctx, delivery.RoutingKey, headers, delivery.Body); err != nil {
				log.Error().Err(err).Str("routingKey", delivery.RoutingKey).Msg("Failed to handle delivery, requeueing.")

				if nackErr := delivery.Nack(false, true); nackErr != nil {
					log.Error().Err(nackErr).Msg("Failed to nack delivery.")
				}

				continue
			}

			if ackErr := delivery.Ack(false); ackErr != nil {
				log.Error().Err(ackErr).Msg("Failed to ack delivery.")
			}
		}
	}
}

func (r *rabbitClientImpl) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error

	if r.ch != nil {
		errs = append(errs, r.ch.Close())
	}

	if r.conn != nil {
		errs = append(errs, r.conn.Close())
	}

	return errors.Join(errs...)
}
