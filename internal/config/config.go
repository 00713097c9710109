package config

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Grading GradingConfig `mapstructure:"grading"`
	Events  EventsConfig  `mapstructure:"events"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`          // Bind address for server (e.g., 0.0.0.0 for all interfaces)
	HTTPPort     int           `mapstructure:"http_port"`     // HTTP server port
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`  // Max time to read a request
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // Max time to write a response
	BodyLimit    int           `mapstructure:"body_limit"`    // Max request body size in bytes
	CORSOrigins  string        `mapstructure:"cors_origins"`  // Comma separated allowed origins
}

// GradingConfig describes the grading scale
type GradingConfig struct {
	MinGrade     float64 `mapstructure:"min_grade"`
	MaxGrade     float64 `mapstructure:"max_grade"`
	PassingGrade float64 `mapstructure:"passing_grade"`
	GPAMax       float64 `mapstructure:"gpa_max"`
	Decimals     int     `mapstructure:"decimals"` // Decimals used when formatting grades
}

// EventsConfig represents the analytics event stream configuration
type EventsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Type          string `mapstructure:"type"`           // Queue type: memory (default), nats, redis, kafka
	URL           string `mapstructure:"url"`            // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username      string `mapstructure:"username"`       // Optional authentication
	Password      string `mapstructure:"password"`       // Optional authentication
	SubjectPrefix string `mapstructure:"subject_prefix"` // Prefix of every event subject
	Compression   string `mapstructure:"compression"`    // none or snappy

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`     // Redis database number (default: 0)
	RedisStream string `mapstructure:"redis_stream"` // Redis stream prefix (default: "gradelens")

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// MetricsConfig represents Prometheus metrics configuration
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // console timestamps, see timeLayouts
}

// timeLayouts lists the accepted logging.time_format names
var timeLayouts = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"datetime":    time.DateTime,
	"kitchen":     time.Kitchen,
}

// TimeLayout returns the time layout for TimeFormat, RFC3339 when unset
func (c LoggingConfig) TimeLayout() string {
	if layout, ok := timeLayouts[strings.ToLower(c.TimeFormat)]; ok {
		return layout
	}
	return time.RFC3339
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Grading.Validate(); err != nil {
		return fmt.Errorf("grading config: %w", err)
	}

	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}

	if c.BodyLimit <= 0 {
		return fmt.Errorf("body_limit must be positive")
	}

	return nil
}

// Validate validates the grading scale
func (c *GradingConfig) Validate() error {
	if c.MaxGrade <= c.MinGrade {
		return fmt.Errorf("grading.max_grade must be greater than grading.min_grade")
	}

	if c.PassingGrade < c.MinGrade || c.PassingGrade > c.MaxGrade {
		return fmt.Errorf("grading.passing_grade must be within [min_grade, max_grade]")
	}

	if c.GPAMax <= 0 {
		return fmt.Errorf("grading.gpa_max must be positive")
	}

	if c.Decimals < 0 || c.Decimals > 10 {
		return fmt.Errorf("grading.decimals must be between 0 and 10")
	}

	return nil
}

// Validate validates events configuration
func (c *EventsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	switch c.Type {
	case "memory":
	case "nats", "redis":
		if c.URL == "" {
			return fmt.Errorf("events.url is required for %s", c.Type)
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 && c.URL == "" {
			return fmt.Errorf("events.kafka_brokers or events.url is required for kafka")
		}
	default:
		return fmt.Errorf("events.type must be one of: memory, nats, redis, kafka")
	}

	if c.Compression != "none" && c.Compression != "snappy" {
		return fmt.Errorf("events.compression must be 'none' or 'snappy'")
	}

	return nil
}

// Validate validates authentication configuration
func (c *AuthConfig) Validate() error {
	if c.Enabled && len(c.APIKeys) == 0 {
		return fmt.Errorf("auth.api_keys is required when auth is enabled")
	}
	return nil
}

// Validate validates metrics configuration
func (c *MetricsConfig) Validate() error {
	if c.Enabled && (c.Path == "" || c.Path[0] != '/') {
		return fmt.Errorf("metrics.path must start with '/'")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	if _, ok := timeLayouts[strings.ToLower(c.TimeFormat)]; c.TimeFormat != "" && !ok {
		return fmt.Errorf("logging.time_format must be one of: rfc3339, rfc3339nano, datetime, kitchen")
	}

	return nil
}
