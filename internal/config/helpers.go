package config

import (
	"net"
	"strconv"

	"github.com/gradelens/gradelens/internal/grades"
)

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// GPAScale returns the configured grading scale for GPA conversion
func (c *Config) GPAScale() grades.Scale {
	return grades.Scale{
		MaxGrade:     c.Grading.MaxGrade,
		PassingGrade: c.Grading.PassingGrade,
		GPAMax:       c.Grading.GPAMax,
	}
}
