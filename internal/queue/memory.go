package queue

import (
	"context"
	"fmt"
	"sync"
)

const memoryQueueCapacity = 10000

// MemoryQueue implements Queue interface using in-memory channels.
// It backs the service when no broker is configured and is used in tests.
type MemoryQueue struct {
	channels      map[string]chan Message
	subscriptions map[string]context.CancelFunc
	closed        bool
	mu            sync.RWMutex
	wg            sync.WaitGroup
}

// newMemoryQueue creates a new in-memory queue instance
func newMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		channels:      make(map[string]chan Message),
		subscriptions: make(map[string]context.CancelFunc),
	}
}

// channel returns the subject's channel, creating it on first use
func (q *MemoryQueue) channel(subject string) (chan Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, fmt.Errorf("queue is closed")
	}
	if ch, exists := q.channels[subject]; exists {
		return ch, nil
	}

	ch := make(chan Message, memoryQueueCapacity)
	q.channels[subject] = ch
	return ch, nil
}

// Publish publishes a message to an in-memory channel
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if _, err := q.channel(subject); err != nil {
		return err
	}

	// Copy so callers may reuse their buffer
	msg := Message{Subject: subject, Data: append([]byte(nil), data...)}

	// Close must not close the channel while we send
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return fmt.Errorf("queue is closed")
	}
	ch := q.channels[subject]

	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("channel full for subject: %s", subject)
	}
}

// PublishBatch publishes multiple messages, skipping those that fail
func (q *MemoryQueue) PublishBatch(ctx context.Context, messages []Message) (int, error) {
	successCount := 0
	for _, msg := range messages {
		if err := q.Publish(ctx, msg.Subject, msg.Data); err != nil {
			continue
		}
		successCount++
	}
	return successCount, nil
}

// Subscribe consumes a subject's channel in the background
func (q *MemoryQueue) Subscribe(subject string, handler MessageHandler) error {
	ch, err := q.channel(subject)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	ctx, cancel := context.WithCancel(context.Background())
	q.subscriptions[subject] = cancel

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				// No redelivery in memory; a failed message is dropped
				_ = handler(msg)
			}
		}
	}()

	return nil
}

// Unsubscribe unsubscribes from a channel
func (q *MemoryQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	delete(q.subscriptions, subject)
	return nil
}

// Close cancels all subscriptions and closes all channels
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true

	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}
	for subject, ch := range q.channels {
		close(ch)
		delete(q.channels, subject)
	}
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// PendingCount returns the number of undelivered messages for a subject
func (q *MemoryQueue) PendingCount(subject string) int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if ch, exists := q.channels[subject]; exists {
		return len(ch)
	}
	return 0
}
