// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendOllama    = "ollama"
	BackendAnthropic = "anthropic"
	BackendGrok      = "grok"
	BackendOpenAI    = "openai"
)

// Config holds application configuration
type Config struct {
	Port         string
	Backend      string
	OllamaModel  string // Model specification in format "model:version" (e.g., "llama3:latest")
	OllamaURL    string
	MaxTurnPairs int           // Transcript bound: at most 2*MaxTurnPairs non-system messages per completion call
	HTTPTimeout  time.Duration // Outbound completion client timeout
	LogDir       string
	ConvLogPath  string // SQLite conversation audit log; empty disables
	ScenarioFile string // Optional YAML scenario catalog override
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Backend:      getEnv("BACKEND", BackendOllama),
		OllamaModel:  getEnv("OLLAMA_MODEL", "llama3:latest"),
		OllamaURL:    getEnv("OLLAMA_URL", "http://localhost:11434"),
		MaxTurnPairs: getEnvInt("MAX_TURN_PAIRS", 5),
		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", 60*time.Second),
		LogDir:       getEnv("LOG_DIR", "logs"),
		ConvLogPath:  getEnv("CONVLOG_PATH", "talktutor.db"),
		ScenarioFile: getEnv("SCENARIO_FILE", ""),
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
	switch c.Backend {
	case BackendOllama, BackendAnthropic, BackendGrok, BackendOpenAI:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	if c.MaxTurnPairs <= 0 {
		return fmt.Errorf("MAX_TURN_PAIRS must be > 0")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be > 0")
	}
	if c.LogDir == "" {
		return fmt.Errorf("LOG_DIR cannot be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
