package broker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrProducerClosed = errors.New("producer closed")

// Producer buffers messages in a channel and writes them from one goroutine.
type Producer struct {
	w     *kafka.Writer
	inbox chan kafka.Message
	done  chan struct{}
	log   *zap.Logger

	mu      sync.RWMutex
	started bool
	closed  bool
}

func NewProducer(brokers []string, topic string, buf int, log *zap.Logger) *Producer {
	if buf <= 0 {
		buf = 256
	}
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
		inbox: make(chan kafka.Message, buf),
		done:  make(chan struct{}),
		log:   log.With(zap.String("component", "kafka_producer"), zap.String("topic", topic)),
	}
}

// Start runs the write loop until Close drains the inbox. It is a no-op on a
// started or closed producer.
func (p *Producer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true

	go func() {
		defer close(p.done)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.log.Error("Failed to write event",
					zap.Error(err),
					zap.ByteString("key", m.Key),
				)
			}
		}
		if err := p.w.Close(); err != nil {
			p.log.Warn("Failed to close kafka writer", zap.Error(err))
		}
	}()
}

// Publish enqueues the envelope keyed by its correlation id so every event of
// one order lands on the same partition.
func (p *Producer) Publish(ctx context.Context, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(env.CorrelationID),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProducerClosed
	}

	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending messages and waits for the writer to shut down.
func (p *Producer) Close() error {
	p.mu.Lock()
	first := !p.closed
	if first {
		p.closed = true
		close(p.inbox)
	}
	running := p.started
	p.mu.Unlock()

	if !running {
		if !first {
			<-p.done
			return nil
		}
		// no write loop; queued messages are dropped
		err := p.w.Close()
		close(p.done)
		return err
	}

	<-p.done
	return nil
}

// LogPublisher is used when no brokers are configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("component", "event_log"))}
}

func (p *LogPublisher) Publish(_ context.Context, env Envelope) error {
	p.log.Debug("Event",
		zap.String("event_id", env.EventID),
		zap.String("event_type", env.EventType),
		zap.String("correlation_id", env.CorrelationID),
		zap.ByteString("payload", env.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
