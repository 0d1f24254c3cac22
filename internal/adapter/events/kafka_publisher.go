package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
)

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status.changed"
)

// Envelope is the wire format shared by all order events.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID        string `json:"order_id"`
	OrderNumber    string `json:"order_number"`
	CustomerID     string `json:"customer_id"`
	VendorID       string `json:"vendor_id"`
	Status         string `json:"status"`
	Total          int64  `json:"total"`
	PlatformFee    int64  `json:"platform_fee"`
	VendorEarnings int64  `json:"vendor_earnings"`
}

type StatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// KafkaPublisher buffers events in memory and writes them from a single
// background goroutine, so callers never block on the broker.
type KafkaPublisher struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewKafkaPublisher(brokers []string, buf int) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *KafkaPublisher) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				// Flush whatever is already buffered before exiting.
				for {
					select {
					case m := <-p.inbox:
						p.write(m)
					default:
						_ = p.w.Close()
						return
					}
				}
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

func (p *KafkaPublisher) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		log.Printf("kafka publish %s failed: %v", m.Topic, err)
	}
}

// WaitClosed blocks until the background loop has flushed and exited.
func (p *KafkaPublisher) WaitClosed() { <-p.closeCh }

func (p *KafkaPublisher) OrderCreated(order domain.Order) {
	p.enqueue(TopicOrderCreated, order.ID, "order.created", OrderCreatedPayload{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID,
		VendorID:       order.VendorID,
		Status:         string(order.Status),
		Total:          order.Total,
		PlatformFee:    order.PlatformFee,
		VendorEarnings: order.VendorEarnings,
	})
}

func (p *KafkaPublisher) OrderStatusChanged(orderID string, from, to domain.Status) {
	p.enqueue(TopicOrderStatusChanged, orderID, "order.status.changed", StatusChangedPayload{
		OrderID: orderID,
		From:    string(from),
		To:      string(to),
	})
}

func (p *KafkaPublisher) enqueue(topic, key, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("kafka marshal %s failed: %v", eventType, err)
		return
	}
	env, err := json.Marshal(Envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	})
	if err != nil {
		log.Printf("kafka marshal envelope failed: %v", err)
		return
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: env,
		Time:  time.Now(),
	}
	select {
	case p.inbox <- msg:
	default:
		// Full buffer means we drop rather than stall a checkout.
		log.Printf("kafka inbox full, dropping %s for %s", eventType, key)
	}
}
