package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

// Config represents ~/.chatdesk/config.toml.
type Config struct {
	LogLevel string `toml:"log_level"`
	Seed     bool   `toml:"seed"`
	Reply    Reply  `toml:"reply"`
}

// Reply configures the simulated assistant latency.
type Reply struct {
	MinDelayMs int `toml:"min_delay_ms"`
	MaxDelayMs int `toml:"max_delay_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Seed:     true,
		Reply: Reply{
			MinDelayMs: 600,
			MaxDelayMs: 1400,
		},
	}
}

// Load reads config from the given path on top of the defaults. Returns an
// error if the file is missing or malformed.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Validate checks the delay window and log level.
func (c *Config) Validate() error {
	if c.Reply.MinDelayMs < 0 {
		return fmt.Errorf("reply.min_delay_ms must not be negative, got %d", c.Reply.MinDelayMs)
	}
	if c.Reply.MaxDelayMs <= c.Reply.MinDelayMs {
		return fmt.Errorf("reply.max_delay_ms (%d) must be greater than reply.min_delay_ms (%d)",
			c.Reply.MaxDelayMs, c.Reply.MinDelayMs)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// ReplyDelay returns the reply delay window [min, max).
func (c *Config) ReplyDelay() (time.Duration, time.Duration) {
	return time.Duration(c.Reply.MinDelayMs) * time.Millisecond,
		time.Duration(c.Reply.MaxDelayMs) * time.Millisecond
}
