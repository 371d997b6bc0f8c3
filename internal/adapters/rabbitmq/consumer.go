package rabbitmq

import (
	"context"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/paklog/inventory-ledger/pkg/mlog"
)

// EventRouter dispatches a decoded routing key to the matching ingest
// handler method. Routing keys follow "*.item.picked" etc (spec §6.2).
type EventRouter interface {
	HandleItemPicked(ctx context.Context, body []byte) error
	HandleStockAddedToLocation(ctx context.Context, body []byte) error
	HandleAllocationRequested(ctx context.Context, body []byte) error
	HandleQualityInspectionCompleted(ctx context.Context, body []byte) error
	HandleDamageReported(ctx context.Context, body []byte) error
}

// Consumer drains a queue and dispatches each message to router by suffix
// match on its routing key.
type Consumer struct {
	conn   *Connection
	queue  string
	router EventRouter
	log    mlog.Logger
}

// NewConsumer builds a Consumer.
func NewConsumer(conn *Connection, queue string, router EventRouter, log mlog.Logger) *Consumer {
	if log == nil {
		log = mlog.NopLogger{}
	}

	return &Consumer{conn: conn, queue: queue, router: router, log: log}
}

// Run blocks, consuming messages until ctx is cancelled or the channel
// closes.
func (c *Consumer) Run(ctx context.Context) error {
	ch, err := c.conn.GetChannel()
	if err != nil {
		return err
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	c.log.Infof("rabbitmq: consuming queue %s", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			c.dispatch(ctx, d)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery) {
	var err error

	switch {
	case strings.HasSuffix(d.RoutingKey, "item.picked"):
		err = c.router.HandleItemPicked(ctx, d.Body)
	case strings.HasSuffix(d.RoutingKey, "stock-added-to-location"):
		err = c.router.HandleStockAddedToLocation(ctx, d.Body)
	case strings.HasSuffix(d.RoutingKey, "inventory.allocation.requested"):
		err = c.router.HandleAllocationRequested(ctx, d.Body)
	case strings.HasSuffix(d.RoutingKey, "quality-inspection.completed"):
		err = c.router.HandleQualityInspectionCompleted(ctx, d.Body)
	case strings.HasSuffix(d.RoutingKey, "damage.reported"):
		err = c.router.HandleDamageReported(ctx, d.Body)
	default:
		c.log.Warnf("rabbitmq: unrecognized routing key %s, acking and dropping", d.RoutingKey)
		_ = d.Ack(false)

		return
	}

	if err != nil {
		c.log.Warnf("rabbitmq: handler failed for routing key %s, nacking for redelivery: %v", d.RoutingKey, err)
		_ = d.Nack(false, true)

		return
	}

	_ = d.Ack(false)
}

// DeadLetterSink implements ingest.DeadLetterSink by republishing to a
// parking-lot exchange instead of discarding the message.
type DeadLetterSink struct {
	producer *Producer
	exchange string
}

// NewDeadLetterSink builds a DeadLetterSink.
func NewDeadLetterSink(producer *Producer, exchange string) *DeadLetterSink {
	return &DeadLetterSink{producer: producer, exchange: exchange}
}

// Park republishes body to the parking-lot exchange under a routing key
// derived from eventType, so an operator can inspect and replay it later.
func (s *DeadLetterSink) Park(ctx context.Context, eventType string, body []byte, reason error) error {
	return s.producer.Publish(ctx, s.exchange, "parked."+eventType, body)
}
