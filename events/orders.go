package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated = "OrderCreated"

	producerName = "storefront-api"
)

// ErrBufferFull is returned when the producer queue cannot take more messages
var ErrBufferFull = errors.New("event buffer full")

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order code
	Payload       json.RawMessage `json:"payload"`
}

type OrderItemPayload struct {
	ProductID uint   `json:"product_id"`
	SKU       string `json:"sku"`
	Qty       int    `json:"qty"`
	Price     int64  `json:"price"`
}

type OrderCreatedPayload struct {
	OrderCode     string             `json:"order_code"`
	UserID        *uint              `json:"user_id,omitempty"`
	Items         []OrderItemPayload `json:"items"`
	Subtotal      int64              `json:"subtotal"`
	Discount      int64              `json:"discount"`
	Total         int64              `json:"total"`
	CouponCode    string             `json:"coupon_code,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Currency      string             `json:"currency"`
}

// NewOrderCreated wraps an order in a versioned envelope
func NewOrderCreated(order *models.Order, now time.Time) (Envelope, error) {
	items := make([]OrderItemPayload, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, OrderItemPayload{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Qty:       it.Quantity,
			Price:     it.Price,
		})
	}
	payload, err := json.Marshal(OrderCreatedPayload{
		OrderCode:     order.OrderCode,
		UserID:        order.UserID,
		Items:         items,
		Subtotal:      order.Subtotal,
		Discount:      order.Discount,
		Total:         order.Total,
		CouponCode:    order.CouponCode,
		PaymentMethod: order.PaymentMethod,
		Currency:      order.Currency,
	})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    now.UTC(),
		Producer:      producerName,
		CorrelationID: order.OrderCode,
		Payload:       payload,
	}, nil
}

// OrderPublisher turns orders into kafka messages keyed by order code
type OrderPublisher struct {
	producer *Producer
}

func NewOrderPublisher(p *Producer) *OrderPublisher {
	return &OrderPublisher{producer: p}
}

func (p *OrderPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env, err := NewOrderCreated(order, time.Now())
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	ok := p.producer.Publish([]byte(order.OrderCode), value,
		kafka.Header{Key: "event_type", Value: []byte(env.EventType)},
		kafka.Header{Key: "event_id", Value: []byte(env.EventID)},
	)
	if !ok {
		return ErrBufferFull
	}
	return nil
}
