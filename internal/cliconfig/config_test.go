package cliconfig

import (
	"errors"
	"testing"
	"time"

	"github.com/bft-labs/loopship/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output != OutputUDP {
		t.Errorf("Output = %s, want %s", cfg.Output, OutputUDP)
	}
	if cfg.ServiceURL != DefaultServiceURL {
		t.Errorf("ServiceURL = %s, want %s", cfg.ServiceURL, DefaultServiceURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v, want 15s", cfg.HTTPTimeout)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
	if cfg.ChunkSize != 1024 {
		t.Errorf("ChunkSize = %d, want 1024", cfg.ChunkSize)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
}

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Frames = []FrameConfig{{Label: "tm", DstIP: "127.0.0.1", DstPort: 9000, File: "tm.bin"}}
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid udp", func(c *Config) {}, false},
		{"valid stdout", func(c *Config) { c.Output = OutputStdout }, false},
		{"valid file", func(c *Config) { c.Output = OutputFile; c.OutputPath = "/tmp/out.bin" }, false},
		{"file without path", func(c *Config) { c.Output = OutputFile }, true},
		{"valid http", func(c *Config) { c.Output = OutputHTTP }, false},
		{"unknown output", func(c *Config) { c.Output = "carrier-pigeon" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"zero http timeout", func(c *Config) { c.HTTPTimeout = 0 }, true},
		{"negative shutdown timeout", func(c *Config) { c.ShutdownTimeout = -time.Second }, true},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, true},
		{"no frames", func(c *Config) { c.Frames = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_Validate_Derivations(t *testing.T) {
	t.Run("empty output defaults to udp", func(t *testing.T) {
		cfg := validConfig()
		cfg.Output = ""
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if cfg.Output != OutputUDP {
			t.Errorf("Output = %s, want %s", cfg.Output, OutputUDP)
		}
	})

	t.Run("service url trailing slash removed", func(t *testing.T) {
		cfg := validConfig()
		cfg.Output = OutputHTTP
		cfg.ServiceURL = "http://collector:8080//"
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if cfg.ServiceURL != "http://collector:8080" {
			t.Errorf("ServiceURL = %s, want http://collector:8080", cfg.ServiceURL)
		}
	})

	t.Run("empty log level defaults to info", func(t *testing.T) {
		cfg := validConfig()
		cfg.LogLevel = ""
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
		}
	})
}

func TestLoggerWithLevel(t *testing.T) {
	if got := LoggerWithLevel("debug").GetLevel().String(); got != "debug" {
		t.Errorf("level = %s, want debug", got)
	}
	if got := LoggerWithLevel("bogus").GetLevel().String(); got != "info" {
		t.Errorf("level = %s, want info", got)
	}
}
