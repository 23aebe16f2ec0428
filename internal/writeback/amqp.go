package writeback

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher is the part of an AMQP channel the sink needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPSink publishes each payload to a durable direct exchange, routed to
// a queue of the same name as the routing key.
type AMQPSink struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	publisher Publisher
	exchange  string
	queue     string
}

// DialAMQP connects to url and declares the exchange, queue and binding.
func DialAMQP(url, exchange, queue string) (*AMQPSink, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	sink := &AMQPSink{conn: conn, channel: ch, publisher: ch, exchange: exchange, queue: queue}
	if err := sink.setup(); err != nil {
		_ = sink.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return sink, nil
}

// NewAMQPSinkWithPublisher builds a sink over an existing publisher.
func NewAMQPSinkWithPublisher(p Publisher, exchange, queue string) *AMQPSink {
	return &AMQPSink{publisher: p, exchange: exchange, queue: queue}
}

func (s *AMQPSink) setup() error {
	if err := s.channel.ExchangeDeclare(s.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := s.channel.QueueDeclare(s.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := s.channel.QueueBind(s.queue, s.queue, s.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (s *AMQPSink) Send(ctx context.Context, p Payload) error {
	body, err := p.Encode()
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	err = s.publisher.PublishWithContext(ctx, s.exchange, s.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Type:         string(p.CollectionName),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (s *AMQPSink) Close() error {
	if s.channel != nil {
		_ = s.channel.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
