package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of kafka.Writer the producer uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer hands messages to a background writer loop. Publish never blocks
// the request path on broker I/O; a full buffer drops the message.
type Producer struct {
	w       MessageWriter
	inbox   chan kafka.Message
	closeCh chan struct{}
	onError func(error)
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return NewProducerWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}, buf)
}

func NewProducerWithWriter(w MessageWriter, buf int) *Producer {
	return &Producer{
		w:       w,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		onError: func(error) {},
	}
}

// OnError registers a callback for write failures in the loop
func (p *Producer) OnError(fn func(error)) {
	p.onError = fn
}

// Start runs the writer loop until ctx is cancelled, then flushes and closes
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				for {
					select {
					case m := <-p.inbox:
						p.write(m)
					default:
						if err := p.w.Close(); err != nil {
							p.onError(err)
						}
						return
					}
				}
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.onError(err)
	}
}

// Publish queues a message; it reports false when the buffer is full
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) bool {
	select {
	case p.inbox <- kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}:
		return true
	default:
		return false
	}
}

// WaitClosed blocks until the loop has flushed and closed the writer
func (p *Producer) WaitClosed() { <-p.closeCh }
