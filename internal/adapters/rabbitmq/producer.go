// Package rabbitmq adapts ports.BusPublisher onto RabbitMQ (spec §4.4 C9),
// grounded on the teacher's producer.rabbitmq.go but built against
// amqp091-go's connection/channel API directly instead of the teacher's
// internal connection-hub wrapper.
package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/pkg/mlog"
)

// Connection is a singleton handle to one RabbitMQ broker connection and
// channel, lazily connecting on first use.
type Connection struct {
	URL     string
	conn    *amqp.Connection
	channel *amqp.Channel
	log     mlog.Logger
}

// NewConnection builds a Connection; it does not dial until GetChannel is
// called.
func NewConnection(url string, log mlog.Logger) *Connection {
	if log == nil {
		log = mlog.NopLogger{}
	}

	return &Connection{URL: url, log: log}
}

// GetChannel returns the underlying channel, connecting lazily if necessary.
func (c *Connection) GetChannel() (*amqp.Channel, error) {
	if c.channel != nil && !c.channel.IsClosed() {
		return c.channel, nil
	}

	c.log.Info("rabbitmq: connecting")

	conn, err := amqp.Dial(c.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}

	c.conn = conn
	c.channel = ch

	c.log.Info("rabbitmq: connected")

	return c.channel, nil
}

// Close tears down the channel and connection.
func (c *Connection) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}

	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}

// Producer implements ports.BusPublisher.
type Producer struct {
	conn *Connection
}

// NewProducer builds a Producer.
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

// Publish sends body to exchange with routingKey, persistent and
// application/json (spec §6.2 envelope content type).
func (p *Producer) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	ch, err := p.conn.GetChannel()
	if err != nil {
		return apperr.Wrap(apperr.KindBusError, err, "rabbitmq: get channel")
	}

	err = ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return apperr.Wrap(apperr.KindBusError, err, "rabbitmq: publish to %s/%s", exchange, routingKey)
	}

	return nil
}
