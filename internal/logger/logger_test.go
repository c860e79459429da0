package logger

import (
	"testing"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %s", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format console, got %s", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected default output stdout, got %s", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp to be enabled by default")
	}
}

func TestConfig_Validate_InvalidLevel(t *testing.T) {
	cfg := &Config{Level: "loud", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestConfig_Validate_InvalidFormat(t *testing.T) {
	cfg := &Config{Level: "info", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	cfg := &Config{Level: "debug", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewDefault_Success(t *testing.T) {
	log := NewDefault("test-service")
	if log == nil {
		t.Fatal("expected non-nil logger")
	}
	// Must not panic.
	log.Debug("debug message")
	log.Info("info message", map[string]interface{}{"key": "value"})
}

func TestWithComponent_ReturnsNewLogger(t *testing.T) {
	log := NewDefault("test")
	tagged := log.WithComponent("storage")
	if tagged == nil {
		t.Fatal("expected non-nil logger")
	}
	if tagged == log {
		t.Error("expected a new logger instance")
	}
}

func TestGetGlobalLogger_CreatesDefault(t *testing.T) {
	globalLogger = nil
	log := GetGlobalLogger()
	if log == nil {
		t.Fatal("expected non-nil global logger")
	}
}
