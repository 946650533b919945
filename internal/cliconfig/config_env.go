package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "LOOPSHIP_"

// ApplyEnvConfig applies LOOPSHIP_* environment variables to cfg. They
// override file values but never explicitly set flags.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	s.setString("simulation", env("SIMULATION"), &cfg.Simulation)
	s.setString("output", env("OUTPUT"), &cfg.Output)
	s.setString("output-path", env("OUTPUT_PATH"), &cfg.OutputPath)
	s.setString("service-url", env("SERVICE_URL"), &cfg.ServiceURL)
	s.setString("auth-key", env("AUTH_KEY"), &cfg.AuthKey)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", env("HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", env("SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}
	if err := s.setIntFromString("chunk-size", env("CHUNK_SIZE"), &cfg.ChunkSize); err != nil {
		return err
	}
	s.setBoolFromString("meta", env("META"), &cfg.Meta)
	return nil
}
