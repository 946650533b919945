package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Simulation      string        `toml:"simulation"`
	Output          string        `toml:"output"`
	OutputPath      string        `toml:"output_path"`
	ServiceURL      string        `toml:"service_url"`
	AuthKey         string        `toml:"auth_key"`
	HTTPTimeout     string        `toml:"http_timeout"`
	ShutdownTimeout string        `toml:"shutdown_timeout"`
	ChunkSize       int           `toml:"chunk_size"`
	LogLevel        string        `toml:"log_level"`
	Meta            *bool         `toml:"meta"`
	Frames          []FrameConfig `toml:"frame"`
}

// FrameConfig describes one [[frame]] table: where chunks go, how often,
// and which loop produces them. Exactly one of File and Payload is set.
type FrameConfig struct {
	Label   string   `toml:"label"`
	ID      string   `toml:"id"`
	Rate    string   `toml:"rate"`
	DstIP   string   `toml:"dst_ip"`
	DstPort int      `toml:"dst_port"`
	SrcPort int      `toml:"src_port"`
	Except  []string `toml:"except"`

	// Repeat defaults to an unbounded loop when unset.
	Repeat *int `toml:"repeat"`

	File   string `toml:"file"`
	Offset int64  `toml:"offset"`
	Size   int    `toml:"size"`

	Payload *PayloadConfig `toml:"payload"`
}

// PayloadConfig describes an encoded payload built from parameters.
type PayloadConfig struct {
	Computed bool          `toml:"computed"`
	Size     int           `toml:"size"`
	Params   []ParamConfig `toml:"param"`
}

// ParamConfig is one payload parameter. Type "file" reads the value as a
// path whose contents are watched for changes.
type ParamConfig struct {
	Label    string `toml:"label"`
	Type     string `toml:"type"`
	Value    string `toml:"value"`
	Constant bool   `toml:"constant"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.loopship/config.toml if the user home
// directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".loopship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("simulation", fc.Simulation, &cfg.Simulation)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("output-path", fc.OutputPath, &cfg.OutputPath)
	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("auth-key", fc.AuthKey, &cfg.AuthKey)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}

	s.setInt("chunk-size", fc.ChunkSize, &cfg.ChunkSize)
	s.setBool("meta", fc.Meta, &cfg.Meta)

	cfg.Frames = append(cfg.Frames, fc.Frames...)
	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
