package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/loopship/internal/domain"
)

// Output kinds accepted by --output.
const (
	OutputUDP    = "udp"
	OutputFile   = "file"
	OutputStdout = "stdout"
	OutputHTTP   = "http"
)

// DefaultServiceURL is the default collector endpoint for the http output.
const DefaultServiceURL = "http://localhost:8080"

// Config holds CLI configuration for loopship.
type Config struct {
	Simulation string

	Output     string
	OutputPath string

	ServiceURL string
	AuthKey    string

	HTTPTimeout     time.Duration
	ShutdownTimeout time.Duration

	ChunkSize int
	LogLevel  string
	Meta      bool

	// Frames come from the config file only.
	Frames []FrameConfig

	// BaseDir resolves relative frame file paths. Set to the config
	// file directory when one is loaded.
	BaseDir string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Output:          OutputUDP,
		ServiceURL:      DefaultServiceURL,
		HTTPTimeout:     15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		ChunkSize:       1024,
		LogLevel:        "info",
		AuthKey:         os.Getenv("LOOPSHIP_AUTH_KEY"),
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	switch c.Output {
	case "":
		c.Output = OutputUDP
	case OutputUDP, OutputStdout:
	case OutputFile:
		if c.OutputPath == "" {
			return fmt.Errorf("%w: output-path is required for the file output", domain.ErrInvalidConfig)
		}
	case OutputHTTP:
		if c.ServiceURL == "" {
			c.ServiceURL = DefaultServiceURL
		}
		c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")
	default:
		return fmt.Errorf("%w: unknown output %q", domain.ErrInvalidConfig, c.Output)
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", domain.ErrInvalidConfig)
	}
	if len(c.Frames) == 0 {
		return fmt.Errorf("%w: no [[frame]] configured", domain.ErrInvalidConfig)
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if positive.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
