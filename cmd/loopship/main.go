package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/loopship"
	"github.com/bft-labs/loopship/internal/cliconfig"
	"github.com/bft-labs/loopship/pkg/log"
	"github.com/bft-labs/loopship/pkg/loop"
)

const helpDescription = `
Replay binary files and encoded payloads as repeating, chunked streams.

Each [[frame]] in the config file binds a loop (a file read in fixed-size
chunks, or a payload built from typed parameters) to a destination and a
rate. Frames listing the active simulation in "except" are skipped.

Outputs:
  udp     one datagram per chunk to the frame destination (default)
  file    append chunks to --output-path
  stdout  write chunks to standard output
  http    POST each chunk to --service-url
`

var exampleUsage = strings.TrimSpace(`
  loopship --config frames.toml
  loopship --config frames.toml --simulation safe-mode --output stdout --meta
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return loop.Version
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	logger := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "loopship",
		Short:         "Replay files and payloads as repeating chunked streams",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
				cfg.BaseDir = filepath.Dir(cfgFile)
			} else if cfgPath != "" {
				return fmt.Errorf("config file %s not found", cfgPath)
			}

			// LOOPSHIP_* override the file but not explicit flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger = cliconfig.LoggerWithLevel(cfg.LogLevel)

			logCfg := cfg
			if len(logCfg.AuthKey) > 0 {
				logCfg.AuthKey = "*****"
			}
			logger.Debug().Interface("config", logCfg).Msg("configuration")
			logger.Info().
				Int("frames", len(cfg.Frames)).
				Str("output", cfg.Output).
				Str("simulation", cfg.Simulation).
				Msg("starting")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := loopship.Run(ctx, cfg, log.NewZerologAdapterWithLogger(logger)); err != nil {
				return err
			}
			if ctx.Err() != nil {
				logger.Info().Msg("received signal, stopped")
			}
			return nil
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.loopship/config.toml)")
	flags.StringVar(&cfg.Simulation, "simulation", cfg.Simulation, "active simulation; frames excluding it are skipped")
	flags.StringVar(&cfg.Output, "output", cfg.Output, "output kind: udp, file, stdout or http")
	flags.StringVar(&cfg.OutputPath, "output-path", cfg.OutputPath, "file to append chunks to (file output)")
	flags.StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, "collector base URL (http output)")
	flags.StringVar(&cfg.AuthKey, "auth-key", cfg.AuthKey, "bearer key for the collector (http output)")
	flags.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "maximum time to wait for frames to stop")
	flags.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "default chunk size for file frames")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	flags.BoolVar(&cfg.Meta, "meta", cfg.Meta, "print chunk metadata to stderr (file and stdout outputs)")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("loopship")
		os.Exit(1)
	}
}
