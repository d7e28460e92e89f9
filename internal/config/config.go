// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port string

	// DBPath is the SQLite file for conversation state. Empty selects the
	// in-memory store (state lost on restart).
	DBPath string

	TelegramToken   string
	TelegramSecret  string
	TelegramBaseURL string

	OllamaURL   string
	OllamaModel string

	// MessageBudget is the wall-clock ceiling for handling one inbound
	// message, all model calls included.
	MessageBudget time.Duration

	// PersonasPath optionally points at a YAML overlay of persona
	// instructions.
	PersonasPath string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "./data/bot.db"),
		TelegramToken:   getEnv("TELEGRAM_TOKEN", ""),
		TelegramSecret:  getEnv("TELEGRAM_SECRET", ""),
		TelegramBaseURL: getEnv("TELEGRAM_API_URL", ""),
		OllamaURL:       getEnv("OLLAMA_URL", ""),
		OllamaModel:     getEnv("OLLAMA_MODEL", ""),
		MessageBudget:   getEnvDuration("MESSAGE_BUDGET", 25*time.Second),
		PersonasPath:    getEnv("PERSONAS_PATH", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.MessageBudget <= 0 {
		return fmt.Errorf("MESSAGE_BUDGET must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	trimmed := strings.TrimSpace(value)
	if d, err := time.ParseDuration(trimmed); err == nil && d > 0 {
		return d
	}
	// Bare numbers are read as seconds.
	if n, err := strconv.Atoi(trimmed); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
