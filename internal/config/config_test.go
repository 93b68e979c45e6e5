package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	keys := []string{
		"PORT", "BACKEND", "OLLAMA_MODEL", "OLLAMA_URL", "MAX_TURN_PAIRS",
		"HTTP_TIMEOUT", "LOG_DIR", "CONVLOG_PATH", "SCENARIO_FILE",
	}
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Backend != BackendOllama {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendOllama)
	}
	if cfg.MaxTurnPairs != 5 {
		t.Errorf("MaxTurnPairs = %d, want 5", cfg.MaxTurnPairs)
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %v, want 60s", cfg.HTTPTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND", BackendAnthropic)
	t.Setenv("MAX_TURN_PAIRS", "8")
	t.Setenv("HTTP_TIMEOUT", "90s")
	t.Setenv("CONVLOG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.Backend != BackendAnthropic {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.MaxTurnPairs != 8 {
		t.Errorf("MaxTurnPairs = %d, want 8", cfg.MaxTurnPairs)
	}
	if cfg.HTTPTimeout != 90*time.Second {
		t.Errorf("HTTPTimeout = %v, want 90s", cfg.HTTPTimeout)
	}
	if cfg.ConvLogPath != "" {
		t.Errorf("ConvLogPath = %q, want empty (audit log disabled)", cfg.ConvLogPath)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("BACKEND", "bard")

	if _, err := Load(); err == nil {
		t.Errorf("expected error for unknown backend")
	}
}

func TestLoadMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("MAX_TURN_PAIRS", "many")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxTurnPairs != 5 {
		t.Errorf("MaxTurnPairs = %d, want fallback 5", cfg.MaxTurnPairs)
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %v, want fallback 60s", cfg.HTTPTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"zero turn pairs", func(c *Config) { c.MaxTurnPairs = 0 }, true},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -time.Second }, true},
		{"empty log dir", func(c *Config) { c.LogDir = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:         "8080",
				Backend:      BackendOllama,
				MaxTurnPairs: 5,
				HTTPTimeout:  time.Minute,
				LogDir:       "logs",
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
