package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	fail   error
	closed bool
}

func (w *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail != nil {
		return w.fail
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func sampleOrder() *models.Order {
	uid := uint(5)
	return &models.Order{
		OrderCode:     "DH123456",
		UserID:        &uid,
		Items:         []models.OrderItem{{ProductID: 1, SKU: "KIT-1", Price: 100000, Quantity: 2}},
		Subtotal:      200000,
		Discount:      20000,
		Total:         180000,
		CouponCode:    "SAVE10",
		PaymentMethod: models.PaymentMethodCOD,
		Currency:      "VND",
	}
}

func TestNewOrderCreated(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("ICT", 7*3600))
	env, err := NewOrderCreated(sampleOrder(), now)
	require.NoError(t, err)

	assert.Equal(t, EventOrderCreated, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "DH123456", env.CorrelationID)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())
	assert.NotEmpty(t, env.EventID)

	var payload OrderCreatedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, int64(180000), payload.Total)
	assert.Equal(t, "SAVE10", payload.CouponCode)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 2, payload.Items[0].Qty)
}

func TestOrderPublisher(t *testing.T) {
	w := &memWriter{}
	p := NewProducerWithWriter(w, 4)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	pub := NewOrderPublisher(p)
	require.NoError(t, pub.PublishOrderCreated(context.Background(), sampleOrder()))

	cancel()
	p.WaitClosed()

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "DH123456", string(msg.Key))
	assert.True(t, w.closed)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, EventOrderCreated, headers["event_type"])
	assert.NotEmpty(t, headers["event_id"])
}

func TestPublishBufferFull(t *testing.T) {
	// Not started, so nothing drains the buffer
	p := NewProducerWithWriter(&memWriter{}, 1)
	pub := NewOrderPublisher(p)

	require.NoError(t, pub.PublishOrderCreated(context.Background(), sampleOrder()))
	assert.ErrorIs(t, pub.PublishOrderCreated(context.Background(), sampleOrder()), ErrBufferFull)
}

func TestProducerReportsWriteErrors(t *testing.T) {
	w := &memWriter{fail: errors.New("broker down")}
	p := NewProducerWithWriter(w, 1)

	var mu sync.Mutex
	var got []error
	p.OnError(func(err error) {
		mu.Lock()
		got = append(got, err)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	assert.True(t, p.Publish([]byte("k"), []byte("v")))
	cancel()
	p.WaitClosed()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, got)
	assert.EqualError(t, got[0], "broker down")
}
