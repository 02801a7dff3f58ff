package events

import (
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ordersExchange = "order_events"

// Event is the payload published for order lifecycle changes. Consumers
// (notification workers, analytics) bind their own queues to the fanout
// exchange.
type Event struct {
	Type         string    `json:"type"`
	OrderID      string    `json:"order_id,omitempty"`
	StoreOrderID string    `json:"store_order_id,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

const (
	TypeOrderPlaced        = "order.placed"
	TypeStoreOrderAccepted = "store_order.accepted"
	TypeStoreOrderRejected = "store_order.rejected"
	TypeOrderPaid          = "order.paid"
	TypeOrderDelivered     = "store_order.delivered"
	TypeDisputeOpened      = "dispute.opened"
	TypeDisputeResolved    = "dispute.resolved"
)

// Publisher pushes lifecycle events to RabbitMQ. It is strictly
// best-effort: publish failures are logged and never propagated into the
// request path. A nil Publisher is a valid no-op.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher dials the broker and declares the fanout exchange. Returns
// nil (no-op publisher) when url is empty.
func NewPublisher(url string) *Publisher {
	if url == "" {
		return nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		log.Printf("[Events] broker unavailable, events disabled: %v", err)
		return nil
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("[Events] channel open failed, events disabled: %v", err)
		_ = conn.Close()
		return nil
	}

	if err := ch.ExchangeDeclare(
		ordersExchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		log.Printf("[Events] exchange declare failed, events disabled: %v", err)
		_ = conn.Close()
		return nil
	}

	return &Publisher{conn: conn, channel: ch}
}

// Publish sends an event to the exchange, best-effort.
func (p *Publisher) Publish(event Event) {
	if p == nil {
		return
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Events] marshal failed for %s: %v", event.Type, err)
		return
	}

	if err := p.channel.Publish(
		ordersExchange,
		"", // fanout ignores routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	); err != nil {
		log.Printf("[Events] publish failed for %s: %v", event.Type, err)
	}
}

// Close tears down the broker connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.conn.Close(); err != nil {
		log.Printf("[Events] close failed: %v", err)
	}
}
