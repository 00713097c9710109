package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gradelens/gradelens/internal/compression"
	"github.com/gradelens/gradelens/internal/logging"
	"github.com/gradelens/gradelens/internal/metrics"
	"github.com/gradelens/gradelens/internal/queue"
	"github.com/gradelens/gradelens/internal/utils"
)

// Event describes one completed analytics operation
type Event struct {
	ID         string      `json:"id"`
	Operation  string      `json:"operation"`
	RequestID  string      `json:"request_id,omitempty"`
	InputSize  int         `json:"input_size"`
	DurationMs float64     `json:"duration_ms"`
	Timestamp  int64       `json:"timestamp"`
	Result     interface{} `json:"result,omitempty"`
}

// EventPublisher publishes analytics events to a queue. Payloads are JSON,
// compressed and framed by the compression package. A nil or disabled
// publisher drops events silently.
type EventPublisher struct {
	publisher  queue.Publisher
	compressor compression.Compressor
	prefix     string
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewEventPublisher creates a publisher writing to subjects under prefix
func NewEventPublisher(
	publisher queue.Publisher,
	compressor compression.Compressor,
	prefix string,
	logger *logging.Logger,
	m *metrics.Metrics,
) *EventPublisher {
	if compressor == nil {
		compressor = &compression.NoneCompressor{}
	}
	return &EventPublisher{
		publisher:  publisher,
		compressor: compressor,
		prefix:     prefix,
		logger:     logger,
		metrics:    m,
	}
}

// Enabled reports whether events are actually published
func (p *EventPublisher) Enabled() bool {
	return p != nil && p.publisher != nil
}

// Subject returns the subject an operation's events are published to
func (p *EventPublisher) Subject(operation string) string {
	return p.prefix + "." + operation
}

// Publish sends one event. The ID and timestamp are filled in when empty.
func (p *EventPublisher) Publish(ctx context.Context, ev Event) error {
	if !p.Enabled() {
		return nil
	}

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}

	data, err := EncodeEvent(p.compressor, ev)
	if err == nil {
		ctx, cancel := context.WithTimeout(ctx, utils.PublishTimeout)
		defer cancel()
		err = p.publisher.Publish(ctx, p.Subject(ev.Operation), data)
	}

	p.metrics.ObserveEvent(err)
	if err != nil {
		p.logger.Warn("Failed to publish analytics event",
			"operation", ev.Operation, "event_id", ev.ID, "error", err)
		return err
	}
	return nil
}

// Close closes the underlying publisher
func (p *EventPublisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.publisher.Close()
}

// EncodeEvent marshals and frames an event
func EncodeEvent(c compression.Compressor, ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	framed, err := compression.Frame(c, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to compress event: %w", err)
	}
	return framed, nil
}

// DecodeEvent reverses EncodeEvent. Result is left as generic JSON.
func DecodeEvent(data []byte) (Event, error) {
	payload, err := compression.Unframe(data)
	if err != nil {
		return Event{}, fmt.Errorf("failed to decompress event: %w", err)
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return ev, nil
}
