// Package queue publishes analytics events to a message broker and lets
// consumers tail them. NATS JetStream, Redis Streams, Kafka and an in-process
// queue are supported.
package queue

import "context"

// Publisher publishes messages to a queue
type Publisher interface {
	// Publish publishes a message to a subject/topic
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishBatch publishes multiple messages and waits for all to complete.
	// Returns the number of successfully published messages and any error
	PublishBatch(ctx context.Context, messages []Message) (int, error)

	// Close closes the connection
	Close() error
}

// Message is a published or delivered event payload
type Message struct {
	Subject string
	Data    []byte
}

// Subscriber subscribes to messages from a queue
type Subscriber interface {
	// Subscribe subscribes to a subject/topic with a handler
	Subscribe(subject string, handler MessageHandler) error

	// Unsubscribe unsubscribes from a subject/topic
	Unsubscribe(subject string) error

	// Close closes the connection
	Close() error
}

// MessageHandler handles a delivered message. A returned error leaves the
// message unacknowledged where the broker supports redelivery.
type MessageHandler func(msg Message) error

// Queue combines Publisher and Subscriber interfaces
type Queue interface {
	Publisher
	Subscriber
}
