package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

// HTTP Handler Timeouts
const (
	// ShutdownTimeout bounds graceful shutdown of the HTTP server
	ShutdownTimeout = 10 * time.Second
)

// Event Timeouts
const (
	// PublishTimeout is the timeout for publishing one analytics event
	PublishTimeout = 5 * time.Second

	// ConnectTimeout is the timeout for establishing broker connections
	ConnectTimeout = 10 * time.Second

	// DefaultRetryBackoff is the pause after a failed broker read
	DefaultRetryBackoff = 100 * time.Millisecond
)

// =============================================================================
// Grade Constants
// =============================================================================

const (
	// MinGrade is the lowest valid grade
	MinGrade = 1.0

	// MaxGrade is the highest valid grade
	MaxGrade = 10.0

	// DefaultDecimals is the number of decimals used when formatting grades
	DefaultDecimals = 1

	// MaxDecimals caps the decimals accepted by FormatGrade
	MaxDecimals = 10
)

// =============================================================================
// Request Limits
// =============================================================================

const (
	// MaxGradesPerRequest is the maximum number of grades accepted in one request
	MaxGradesPerRequest = 10000

	// MaxHistogramBuckets is the maximum histogram bucket count
	MaxHistogramBuckets = 100

	// MaxEventPayloadSize caps the decoded size of one analytics event
	MaxEventPayloadSize = 16 << 20
)

// =============================================================================
// Queue Type Constants
// =============================================================================
// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (default, also used in tests)
	QueueTypeMemory QueueType = "memory"
)
