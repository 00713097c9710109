package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gradelens/gradelens/internal/utils"
)

// RedisConfig represents Redis Streams configuration
type RedisConfig struct {
	URL      string // Redis URL (e.g., redis://localhost:6379)
	Password string // Optional password
	DB       int    // Database number (default: 0)
	Stream   string // Stream prefix (default: "gradelens")
	Group    string // Consumer group name (default: "gradelens-group")
	Consumer string // Consumer name (default: hostname)
	MaxLen   int64  // Approximate cap on entries per stream (default: 100000)
}

// RedisQueue implements Queue interface using Redis Streams
type RedisQueue struct {
	client        *redis.Client
	config        RedisConfig
	subscriptions map[string]context.CancelFunc
	mu            sync.RWMutex
}

// newRedisQueue creates a new Redis Streams queue instance
func newRedisQueue(cfg RedisConfig) (*RedisQueue, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Plain host:port
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), utils.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisQueueWithClient(client, cfg), nil
}

// newRedisQueueWithClient wraps an existing client, applying defaults
func newRedisQueueWithClient(client *redis.Client, cfg RedisConfig) *RedisQueue {
	if cfg.Stream == "" {
		cfg.Stream = "gradelens"
	}
	if cfg.Group == "" {
		cfg.Group = "gradelens-group"
	}
	if cfg.Consumer == "" {
		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "consumer-1"
		}
		cfg.Consumer = hostname
	}
	if cfg.MaxLen == 0 {
		cfg.MaxLen = 100000
	}

	return &RedisQueue{
		client:        client,
		config:        cfg,
		subscriptions: make(map[string]context.CancelFunc),
	}
}

// streamName converts a subject to a Redis stream name
func (q *RedisQueue) streamName(subject string) string {
	return q.config.Stream + ":" + subject
}

func (q *RedisQueue) addArgs(msg Message) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: q.streamName(msg.Subject),
		MaxLen: q.config.MaxLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"subject": msg.Subject,
			"data":    msg.Data,
		},
	}
}

// Publish appends a message to the subject's stream
func (q *RedisQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.client.XAdd(ctx, q.addArgs(Message{Subject: subject, Data: data})).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis stream %s: %w", q.streamName(subject), err)
	}
	return nil
}

// PublishBatch publishes multiple messages in one pipeline
func (q *RedisQueue) PublishBatch(ctx context.Context, messages []Message) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	pipe := q.client.Pipeline()
	for _, msg := range messages {
		pipe.XAdd(ctx, q.addArgs(msg))
	}

	cmds, err := pipe.Exec(ctx)
	successCount := 0
	for _, cmd := range cmds {
		if cmd.Err() == nil {
			successCount++
		}
	}
	if err != nil && successCount == 0 {
		return 0, fmt.Errorf("failed to execute batch publish: %w", err)
	}
	return successCount, nil
}

// Subscribe reads the subject's stream through a consumer group
func (q *RedisQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	stream := q.streamName(subject)
	ctx, cancel := context.WithCancel(context.Background())

	err := q.client.XGroupCreateMkStream(ctx, stream, q.config.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		cancel()
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	go q.readStream(ctx, stream, subject, handler)

	q.subscriptions[subject] = cancel
	return nil
}

// readStream reads new entries until ctx is cancelled. Entries whose handler
// fails stay pending in the group.
func (q *RedisQueue) readStream(ctx context.Context, stream, subject string, handler MessageHandler) {
	for ctx.Err() == nil {
		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.config.Group,
			Consumer: q.config.Consumer,
			Streams:  []string{stream, ">"},
			Count:    100,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				time.Sleep(utils.DefaultRetryBackoff)
			}
			continue
		}

		for _, s := range streams {
			for _, entry := range s.Messages {
				data, ok := entry.Values["data"].(string)
				if !ok {
					q.client.XAck(ctx, stream, q.config.Group, entry.ID)
					continue
				}
				if err := handler(Message{Subject: subject, Data: []byte(data)}); err != nil {
					continue
				}
				q.client.XAck(ctx, stream, q.config.Group, entry.ID)
			}
		}
	}
}

// Unsubscribe unsubscribes from a subject
func (q *RedisQueue) Unsubscribe(subject string) error {
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

// Close cancels all readers and closes the Redis connection
func (q *RedisQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}

	return q.client.Close()
}
