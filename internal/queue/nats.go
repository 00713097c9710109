package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/gradelens/gradelens/internal/utils"
)

// NATSConfig represents NATS JetStream configuration
type NATSConfig struct {
	URL      string        // NATS URL (e.g., nats://localhost:4222)
	Username string        // Optional authentication
	Password string        // Optional authentication
	Stream   string        // Stream capturing the event subjects
	Subjects []string      // Subjects bound to the stream, e.g. gradelens.analytics.>
	MaxAge   time.Duration // Retention of stored events (default: 24h)
}

// NATSQueue implements Queue interface using NATS JetStream
type NATSQueue struct {
	conn          *nats.Conn
	js            nats.JetStreamContext
	stream        string
	subscriptions map[string]*nats.Subscription
	mu            sync.RWMutex
}

// newNATSQueue connects to NATS and makes sure the event stream exists
func newNATSQueue(cfg NATSConfig) (*NATSQueue, error) {
	opts := []nats.Option{
		nats.Name("gradelens"),
		nats.Timeout(utils.ConnectTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	q, err := newNATSQueueWithConn(conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return q, nil
}

// newNATSQueueWithConn creates a NATS queue on an existing connection
func newNATSQueueWithConn(conn *nats.Conn, cfg NATSConfig) (*NATSQueue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	q := &NATSQueue{
		conn:          conn,
		js:            js,
		stream:        cfg.Stream,
		subscriptions: make(map[string]*nats.Subscription),
	}
	if cfg.Stream != "" {
		if err := q.ensureStream(cfg); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// ensureStream creates the event stream unless it already exists
func (q *NATSQueue) ensureStream(cfg NATSConfig) error {
	_, err := q.js.StreamInfo(cfg.Stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", cfg.Stream, err)
	}

	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 24 * time.Hour
	}

	_, err = q.js.AddStream(&nats.StreamConfig{
		Name:     cfg.Stream,
		Subjects: cfg.Subjects,
		Storage:  nats.FileStorage,
		MaxAge:   maxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", cfg.Stream, err)
	}
	return nil
}

// Publish publishes a message and waits for the JetStream acknowledgement
func (q *NATSQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if _, err := q.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// PublishBatch queues all messages asynchronously and waits for every
// acknowledgement or the context, whichever comes first.
func (q *NATSQueue) PublishBatch(ctx context.Context, messages []Message) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	futures := make([]nats.PubAckFuture, 0, len(messages))
	for _, msg := range messages {
		future, err := q.js.PublishAsync(msg.Subject, msg.Data)
		if err != nil {
			continue
		}
		futures = append(futures, future)
	}

	select {
	case <-q.js.PublishAsyncComplete():
	case <-ctx.Done():
		return 0, fmt.Errorf("timeout waiting for batch publish: %w", ctx.Err())
	}

	successCount := 0
	for _, future := range futures {
		select {
		case <-future.Ok():
			successCount++
		case <-future.Err():
		}
	}
	return successCount, nil
}

// Subscribe attaches a durable consumer to subject. Messages are acked when
// the handler succeeds and nacked for redelivery otherwise.
func (q *NATSQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	opts := []nats.SubOpt{
		nats.Durable("consumer-" + sanitizeName(subject)),
		nats.ManualAck(),
		nats.MaxAckPending(100),
		nats.AckWait(30 * time.Second),
		nats.MaxDeliver(3),
		nats.DeliverAll(),
	}
	if q.stream != "" {
		opts = append(opts, nats.BindStream(q.stream))
	}

	sub, err := q.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(Message{Subject: msg.Subject, Data: msg.Data}); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	}, opts...)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	q.subscriptions[subject] = sub
	return nil
}

// Unsubscribe unsubscribes from a subject
func (q *NATSQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe from subject %s: %w", subject, err)
	}

	delete(q.subscriptions, subject)
	return nil
}

// Close drops all subscriptions and closes the connection
func (q *NATSQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, sub := range q.subscriptions {
		_ = sub.Unsubscribe()
		delete(q.subscriptions, subject)
	}

	q.conn.Close()
	return nil
}
