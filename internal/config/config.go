// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the application. Provider credentials
// are optional; a provider with no key runs in demo mode.
type Config struct {
	// Server settings
	Port           int    `env:"PORT, default=8080" json:"port"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS, default=*" json:"allowed_origins"`

	// Storage settings
	MediaDir string `env:"MEDIA_DIR, default=./media" json:"media_dir"`

	// DALL-E 3 image generation settings
	DalleAPIKey     string `env:"DALLE_API_KEY" json:"-"` // Masked in JSON
	DalleEndpoint   string `env:"DALLE_ENDPOINT" json:"dalle_endpoint,omitempty"`
	DalleDeployment string `env:"DALLE_DEPLOYMENT, default=dall-e-3" json:"dalle_deployment"`

	// Sora video generation settings
	SoraAPIKey   string `env:"SORA_API_KEY" json:"-"` // Masked in JSON
	SoraEndpoint string `env:"SORA_ENDPOINT" json:"sora_endpoint,omitempty"`

	// Chat completion settings for presentation content
	ChatAPIKey     string `env:"OPENAI_API_KEY" json:"-"` // Masked in JSON
	ChatEndpoint   string `env:"OPENAI_ENDPOINT" json:"openai_endpoint,omitempty"`
	ChatDeployment string `env:"OPENAI_DEPLOYMENT, default=gpt-4o" json:"openai_deployment"`

	// Polling settings for asynchronous video jobs
	PollIntervalSec int `env:"POLL_INTERVAL_SEC, default=5" json:"poll_interval_sec"`
	MaxPollAttempts int `env:"MAX_POLL_ATTEMPTS, default=120" json:"max_poll_attempts"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// DalleEnabled returns true if DALL-E credentials are configured.
func (c *Config) DalleEnabled() bool {
	return c.DalleAPIKey != "" && c.DalleEndpoint != ""
}

// SoraEnabled returns true if Sora credentials are configured.
func (c *Config) SoraEnabled() bool {
	return c.SoraAPIKey != "" && c.SoraEndpoint != ""
}

// ChatEnabled returns true if chat completion credentials are configured.
func (c *Config) ChatEnabled() bool {
	return c.ChatAPIKey != "" && c.ChatEndpoint != ""
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// PollInterval returns the supervisor poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

// Origins returns the configured CORS origins as a slice.
func (c *Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, MediaDir: %s, DalleEnabled: %t, SoraEnabled: %t, ChatEnabled: %t, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.MediaDir,
		c.DalleEnabled(),
		c.SoraEnabled(),
		c.ChatEnabled(),
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
