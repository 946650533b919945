package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"LOOPSHIP_SIMULATION":       "nominal",
				"LOOPSHIP_OUTPUT":           "http",
				"LOOPSHIP_SERVICE_URL":      "http://collector",
				"LOOPSHIP_HTTP_TIMEOUT":     "30s",
				"LOOPSHIP_SHUTDOWN_TIMEOUT": "2s",
				"LOOPSHIP_CHUNK_SIZE":       "512",
				"LOOPSHIP_META":             "true",
			},
			changed: map[string]bool{},
			expected: Config{
				Simulation:      "nominal",
				Output:          "http",
				ServiceURL:      "http://collector",
				HTTPTimeout:     30 * time.Second,
				ShutdownTimeout: 2 * time.Second,
				ChunkSize:       512,
				Meta:            true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"LOOPSHIP_SIMULATION": "env-sim",
				"LOOPSHIP_OUTPUT":     "stdout",
			},
			changed:  map[string]bool{"simulation": true},
			initial:  Config{Simulation: "flag-sim"},
			expected: Config{Simulation: "flag-sim", Output: "stdout"},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"LOOPSHIP_HTTP_TIMEOUT": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"LOOPSHIP_CHUNK_SIZE": "big"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "ignores non-positive int",
			envVars:  map[string]string{"LOOPSHIP_CHUNK_SIZE": "-4"},
			changed:  map[string]bool{},
			initial:  Config{ChunkSize: 64},
			expected: Config{ChunkSize: 64},
		},
		{
			name:     "handles bool '1' as true",
			envVars:  map[string]string{"LOOPSHIP_META": "1"},
			changed:  map[string]bool{},
			expected: Config{Meta: true},
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{"LOOPSHIP_META": "false"},
			changed:  map[string]bool{},
			initial:  Config{Meta: true},
			expected: Config{Meta: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}

			if cfg.Simulation != tt.expected.Simulation {
				t.Errorf("Simulation = %v, want %v", cfg.Simulation, tt.expected.Simulation)
			}
			if cfg.Output != tt.expected.Output {
				t.Errorf("Output = %v, want %v", cfg.Output, tt.expected.Output)
			}
			if cfg.ServiceURL != tt.expected.ServiceURL {
				t.Errorf("ServiceURL = %v, want %v", cfg.ServiceURL, tt.expected.ServiceURL)
			}
			if cfg.HTTPTimeout != tt.expected.HTTPTimeout {
				t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, tt.expected.HTTPTimeout)
			}
			if cfg.ShutdownTimeout != tt.expected.ShutdownTimeout {
				t.Errorf("ShutdownTimeout = %v, want %v", cfg.ShutdownTimeout, tt.expected.ShutdownTimeout)
			}
			if cfg.ChunkSize != tt.expected.ChunkSize {
				t.Errorf("ChunkSize = %v, want %v", cfg.ChunkSize, tt.expected.ChunkSize)
			}
			if cfg.Meta != tt.expected.Meta {
				t.Errorf("Meta = %v, want %v", cfg.Meta, tt.expected.Meta)
			}
		})
	}
}

// Precedence: flags > env > file.
func TestConfigPrecedence(t *testing.T) {
	trueVal := true
	fileConf := FileConfig{
		Simulation: "file-sim",
		Output:     "file",
		OutputPath: "/file/out.bin",
		Meta:       &trueVal,
	}

	t.Setenv("LOOPSHIP_SIMULATION", "env-sim")
	t.Setenv("LOOPSHIP_OUTPUT", "stdout")

	changed := map[string]bool{"simulation": true}
	cfg := Config{Simulation: "flag-sim"}

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.Simulation != "flag-sim" {
		t.Errorf("Simulation = %v, want flag-sim (flag should win)", cfg.Simulation)
	}
	if cfg.Output != "stdout" {
		t.Errorf("Output = %v, want stdout (env should override file)", cfg.Output)
	}
	if cfg.OutputPath != "/file/out.bin" {
		t.Errorf("OutputPath = %v, want /file/out.bin (file should set)", cfg.OutputPath)
	}
	if !cfg.Meta {
		t.Error("Meta = false, want true (file should set)")
	}
}
