package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gradelens/gradelens/internal/utils"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")              // Current directory
		v.AddConfigPath("./configs")      // Project configs directory
		v.AddConfigPath("./config")       // Alternative config directory
		v.AddConfigPath("/etc/gradelens") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides, e.g. GRADELENS_SERVER_HTTP_PORT
	v.SetEnvPrefix("GRADELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.http_port", def.Server.HTTPPort)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)
	v.SetDefault("server.body_limit", def.Server.BodyLimit)
	v.SetDefault("server.cors_origins", def.Server.CORSOrigins)

	// Grading defaults
	v.SetDefault("grading.min_grade", def.Grading.MinGrade)
	v.SetDefault("grading.max_grade", def.Grading.MaxGrade)
	v.SetDefault("grading.passing_grade", def.Grading.PassingGrade)
	v.SetDefault("grading.gpa_max", def.Grading.GPAMax)
	v.SetDefault("grading.decimals", def.Grading.Decimals)

	// Events defaults
	v.SetDefault("events.enabled", def.Events.Enabled)
	v.SetDefault("events.type", def.Events.Type)
	v.SetDefault("events.url", def.Events.URL)
	v.SetDefault("events.subject_prefix", def.Events.SubjectPrefix)
	v.SetDefault("events.compression", def.Events.Compression)
	v.SetDefault("events.redis_stream", def.Events.RedisStream)

	// Auth defaults
	v.SetDefault("auth.enabled", def.Auth.Enabled)

	// Metrics defaults
	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.path", def.Metrics.Path)
	v.SetDefault("metrics.namespace", def.Metrics.Namespace)

	// Logging defaults
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.output_path", def.Logging.OutputPath)
	v.SetDefault("logging.time_format", def.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			HTTPPort:     5580,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			BodyLimit:    4 * 1024 * 1024,
			CORSOrigins:  "*",
		},
		Grading: GradingConfig{
			MinGrade:     utils.MinGrade,
			MaxGrade:     utils.MaxGrade,
			PassingGrade: 5.5,
			GPAMax:       4.0,
			Decimals:     utils.DefaultDecimals,
		},
		Events: EventsConfig{
			Enabled:       false,
			Type:          "memory",
			URL:           "nats://localhost:4222",
			SubjectPrefix: "gradelens.analytics",
			Compression:   "snappy",
			RedisStream:   "gradelens",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "gradelens",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "rfc3339",
		},
	}
}
