package queue

import (
	"fmt"
	"strings"

	"github.com/gradelens/gradelens/internal/config"
	"github.com/gradelens/gradelens/internal/utils"
)

// NewQueue creates a new Queue instance based on the events configuration.
// Default is the in-memory queue if type is not specified
func NewQueue(cfg config.EventsConfig) (Queue, error) {
	queueType := utils.QueueType(strings.ToLower(cfg.Type))
	if queueType == "" {
		queueType = utils.QueueTypeMemory
	}

	switch queueType {
	case utils.QueueTypeNATS:
		return newNATSQueue(NATSConfig{
			URL:      cfg.URL,
			Username: cfg.Username,
			Password: cfg.Password,
			Stream:   StreamName(cfg.SubjectPrefix),
			Subjects: []string{cfg.SubjectPrefix + ".>"},
		})

	case utils.QueueTypeRedis:
		return newRedisQueue(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
		})

	case utils.QueueTypeKafka:
		brokers := cfg.KafkaBrokers
		if len(brokers) == 0 && cfg.URL != "" {
			brokers = strings.Split(cfg.URL, ",")
		}
		return newKafkaQueue(KafkaConfig{Brokers: brokers})

	case utils.QueueTypeMemory:
		return newMemoryQueue(), nil

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", queueType)
	}
}

// StreamName derives a JetStream stream name from a subject prefix, e.g.
// gradelens.analytics becomes GRADELENS_ANALYTICS.
func StreamName(prefix string) string {
	return strings.ToUpper(sanitizeName(prefix))
}

// sanitizeName replaces characters not allowed in stream and consumer names.
// Names can only contain: A-Z, a-z, 0-9, dash (-) and underscore (_)
func sanitizeName(subject string) string {
	result := make([]byte, 0, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
