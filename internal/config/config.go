package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings for the hub process.
type Config struct {
	HTTP      *HTTPConfig      `json:"http"`
	WebSocket *WebSocketConfig `json:"websocket"`
	History   *HistoryConfig   `json:"history"`
}

type HTTPConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

type WebSocketConfig struct {
	PingInterval   time.Duration `json:"ping_interval"`
	ReadTimeout    time.Duration `json:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout"`
	SendBuffer     int           `json:"send_buffer"`
	ReadLimit      int64         `json:"read_limit"`
	AllowedOrigins []string      `json:"allowed_origins"`
}

// HistoryConfig bounds the per-room message log and pagination pages.
type HistoryConfig struct {
	Capacity    int `json:"capacity"`
	PageSize    int `json:"page_size"`
	MaxPageSize int `json:"max_page_size"`
}

// DefaultConfig returns production defaults: 500-message room logs, 20-message
// pagination pages, 30s heartbeat with a 60s read deadline.
func DefaultConfig() *Config {
	return &Config{
		HTTP: &HTTPConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		WebSocket: &WebSocketConfig{
			PingInterval:   30 * time.Second,
			ReadTimeout:    60 * time.Second,
			WriteTimeout:   10 * time.Second,
			SendBuffer:     100,
			ReadLimit:      64 * 1024,
			AllowedOrigins: []string{"*"},
		},
		History: &HistoryConfig{
			Capacity:    500,
			PageSize:    20,
			MaxPageSize: 100,
		},
	}
}

// Validate rejects configurations that would fail at runtime.
func (c *Config) Validate() error {
	if c.HTTP == nil {
		return fmt.Errorf("HTTP configuration is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP port must be between 1 and 65535")
	}
	if c.HTTP.Host == "" {
		return fmt.Errorf("HTTP host cannot be empty")
	}
	if c.HTTP.ReadTimeout <= 0 {
		return fmt.Errorf("HTTP read timeout must be positive")
	}
	if c.HTTP.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP write timeout must be positive")
	}

	if c.WebSocket == nil {
		return fmt.Errorf("WebSocket configuration is required")
	}
	if c.WebSocket.PingInterval <= 0 {
		return fmt.Errorf("WebSocket ping interval must be positive")
	}
	if c.WebSocket.ReadTimeout <= c.WebSocket.PingInterval {
		return fmt.Errorf("WebSocket read timeout must exceed ping interval")
	}
	if c.WebSocket.WriteTimeout <= 0 {
		return fmt.Errorf("WebSocket write timeout must be positive")
	}
	if c.WebSocket.SendBuffer <= 0 {
		return fmt.Errorf("WebSocket send buffer must be positive")
	}
	if c.WebSocket.ReadLimit <= 0 {
		return fmt.Errorf("WebSocket read limit must be positive")
	}
	if len(c.WebSocket.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}

	if c.History == nil {
		return fmt.Errorf("history configuration is required")
	}
	if c.History.Capacity <= 0 {
		return fmt.Errorf("history capacity must be positive")
	}
	if c.History.PageSize <= 0 {
		return fmt.Errorf("history page size must be positive")
	}
	if c.History.MaxPageSize < c.History.PageSize {
		return fmt.Errorf("history max page size must be at least the default page size")
	}

	return nil
}

// LoadFromEnv returns defaults overridden by CHATHUB_* environment variables.
// Unparseable values fall back to defaults.
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	if host := os.Getenv("CHATHUB_HTTP_HOST"); host != "" {
		cfg.HTTP.Host = host
	}
	if port := os.Getenv("CHATHUB_HTTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.HTTP.Port = p
		}
	}
	if timeout := os.Getenv("CHATHUB_HTTP_READ_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.HTTP.ReadTimeout = d
		}
	}
	if timeout := os.Getenv("CHATHUB_HTTP_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.HTTP.WriteTimeout = d
		}
	}

	if interval := os.Getenv("CHATHUB_WS_PING_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.WebSocket.PingInterval = d
		}
	}
	if timeout := os.Getenv("CHATHUB_WS_READ_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.WebSocket.ReadTimeout = d
		}
	}
	if timeout := os.Getenv("CHATHUB_WS_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.WebSocket.WriteTimeout = d
		}
	}
	if buffer := os.Getenv("CHATHUB_WS_SEND_BUFFER"); buffer != "" {
		if n, err := strconv.Atoi(buffer); err == nil {
			cfg.WebSocket.SendBuffer = n
		}
	}
	if limit := os.Getenv("CHATHUB_WS_READ_LIMIT"); limit != "" {
		if n, err := strconv.ParseInt(limit, 10, 64); err == nil {
			cfg.WebSocket.ReadLimit = n
		}
	}
	if origins := os.Getenv("CHATHUB_ALLOWED_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		parsed := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parsed = append(parsed, trimmed)
			}
		}
		if len(parsed) > 0 {
			cfg.WebSocket.AllowedOrigins = parsed
		}
	}

	if capacity := os.Getenv("CHATHUB_HISTORY_CAPACITY"); capacity != "" {
		if n, err := strconv.Atoi(capacity); err == nil {
			cfg.History.Capacity = n
		}
	}
	if size := os.Getenv("CHATHUB_HISTORY_PAGE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			cfg.History.PageSize = n
		}
	}
	if size := os.Getenv("CHATHUB_HISTORY_MAX_PAGE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			cfg.History.MaxPageSize = n
		}
	}

	return cfg
}
