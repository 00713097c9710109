package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "default config should be valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid http port",
			mutate:  func(c *Config) { c.Server.HTTPPort = 0 },
			wantErr: true,
		},
		{
			name:    "zero body limit",
			mutate:  func(c *Config) { c.Server.BodyLimit = 0 },
			wantErr: true,
		},
		{
			name:    "max grade below min grade",
			mutate:  func(c *Config) { c.Grading.MaxGrade = 0.5 },
			wantErr: true,
		},
		{
			name:    "passing grade above max grade",
			mutate:  func(c *Config) { c.Grading.PassingGrade = 11 },
			wantErr: true,
		},
		{
			name:    "zero gpa max",
			mutate:  func(c *Config) { c.Grading.GPAMax = 0 },
			wantErr: true,
		},
		{
			name: "disabled events skip validation",
			mutate: func(c *Config) {
				c.Events.Enabled = false
				c.Events.Type = "carrier-pigeon"
			},
			wantErr: false,
		},
		{
			name: "unknown event queue type",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.Type = "carrier-pigeon"
			},
			wantErr: true,
		},
		{
			name: "redis events without url",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.Type = "redis"
				c.Events.URL = ""
			},
			wantErr: true,
		},
		{
			name: "kafka events with brokers",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.Type = "kafka"
				c.Events.URL = ""
				c.Events.KafkaBrokers = []string{"localhost:9092"}
			},
			wantErr: false,
		},
		{
			name: "unknown compression",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.Compression = "zip"
			},
			wantErr: true,
		},
		{
			name:    "auth enabled without keys",
			mutate:  func(c *Config) { c.Auth.Enabled = true },
			wantErr: true,
		},
		{
			name:    "relative metrics path",
			mutate:  func(c *Config) { c.Metrics.Path = "metrics" },
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "unknown time format",
			mutate:  func(c *Config) { c.Logging.TimeFormat = "UnixMs" },
			wantErr: true,
		},
		{
			name:    "time format is case insensitive",
			mutate:  func(c *Config) { c.Logging.TimeFormat = "DateTime" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  http_port: 9100
  read_timeout: 3s
grading:
  passing_grade: 6.0
events:
  enabled: true
  type: memory
  compression: none
auth:
  enabled: true
  api_keys: ["secret"]
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.HTTPPort)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 6.0, cfg.Grading.PassingGrade)
	// untouched keys keep their defaults
	assert.Equal(t, 10.0, cfg.Grading.MaxGrade)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "none", cfg.Events.Compression)
	assert.Equal(t, []string{"secret"}, cfg.Auth.APIKeys)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: 9100\n"), 0o600))

	t.Setenv("GRADELENS_SERVER_HTTP_PORT", "9200")
	t.Setenv("GRADELENS_GRADING_GPA_MAX", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.HTTPPort)
	assert.Equal(t, 5.0, cfg.Grading.GPAMax)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)

	cfg := LoadOrDefault(path)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "0.0.0.0:5580", cfg.GetServerAddress())
	assert.False(t, cfg.IsDevelopment())

	scale := cfg.GPAScale()
	assert.Equal(t, 10.0, scale.MaxGrade)
	assert.Equal(t, 5.5, scale.PassingGrade)
	assert.Equal(t, 4.0, scale.GPAMax)
}

func TestLoggingConfig_TimeLayout(t *testing.T) {
	assert.Equal(t, time.RFC3339, LoggingConfig{}.TimeLayout())
	assert.Equal(t, time.Kitchen, LoggingConfig{TimeFormat: "Kitchen"}.TimeLayout())
	assert.Equal(t, time.RFC3339Nano, LoggingConfig{TimeFormat: "rfc3339nano"}.TimeLayout())
}
