// Package loopship streams repeating, chunked byte loops to UDP, HTTP or
// file destinations at a fixed rate per frame.
//
// Example usage:
//
//	cfg := loopship.DefaultConfig()
//	fc, err := cliconfig.LoadFileConfig("frames.toml")
//	...
//	if err := loopship.Run(ctx, cfg, log.NewZerologAdapter()); err != nil {
//	    log.Fatal(err)
//	}
package loopship

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	fsAdapter "github.com/bft-labs/loopship/internal/adapters/fs"
	httpAdapter "github.com/bft-labs/loopship/internal/adapters/http"
	udpAdapter "github.com/bft-labs/loopship/internal/adapters/udp"
	"github.com/bft-labs/loopship/internal/app"
	"github.com/bft-labs/loopship/internal/cliconfig"
	"github.com/bft-labs/loopship/internal/domain"
	"github.com/bft-labs/loopship/internal/ports"
	"github.com/bft-labs/loopship/pkg/log"
)

// Config holds the configuration of a streaming run.
type Config = cliconfig.Config

// DefaultConfig returns a Config with sensible default values.
// At minimum, at least one frame must be added before calling Run.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Run streams every configured frame until all bounded loops are
// exhausted or ctx is cancelled. Cancellation is a graceful stop and
// returns nil. Frames whose loop failed are reported as a joined error.
func Run(ctx context.Context, cfg Config, logger log.Logger) error {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	jobs, err := cliconfig.BuildJobs(cfg, logger)
	if err != nil {
		return err
	}

	sender, err := newSender(cfg, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := sender.Close(); err != nil {
			logger.Warn("failed to close sender", log.Err(err))
		}
	}()

	streamer := app.NewStreamer(
		app.StreamerConfig{
			Simulation:      cfg.Simulation,
			ShutdownTimeout: cfg.ShutdownTimeout,
		},
		jobs,
		sender,
		logger,
		nil,
		eventLogger{logger: logger},
	)
	if err := streamer.Start(ctx); err != nil {
		return fmt.Errorf("start streamer: %w", err)
	}

	if err := streamer.Wait(ctx); err != nil {
		// ctx is the streamer's parent, so its workers are already
		// winding down; give them the shutdown timeout to finish.
		waitCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := streamer.Wait(waitCtx); err != nil {
			return domain.ErrShutdownTimeout
		}
	}

	var errs []error
	for _, job := range streamer.Status().Jobs {
		if job.Err != nil {
			errs = append(errs, fmt.Errorf("frame %q: %w", job.Label, job.Err))
		}
	}
	return errors.Join(errs...)
}

func newSender(cfg Config, stdout, stderr io.Writer) (ports.ChunkSender, error) {
	var meta io.Writer
	if cfg.Meta {
		meta = stderr
	}

	switch cfg.Output {
	case cliconfig.OutputUDP:
		return udpAdapter.NewSender(), nil
	case cliconfig.OutputFile:
		return fsAdapter.NewFileSender(cfg.OutputPath, meta)
	case cliconfig.OutputStdout:
		return fsAdapter.NewWriterSender(stdout, meta), nil
	case cliconfig.OutputHTTP:
		client := &http.Client{Timeout: cfg.HTTPTimeout}
		return httpAdapter.NewSender(client, cfg.ServiceURL, cfg.AuthKey), nil
	default:
		return nil, fmt.Errorf("%w: unknown output %q", domain.ErrInvalidConfig, cfg.Output)
	}
}

// eventLogger reports streamer events through the run logger.
type eventLogger struct {
	logger log.Logger
}

func (e eventLogger) OnChunkSent(frame domain.Frame, bytes int) {
	e.logger.Debug("chunk sent", log.Frame(frame.Label), log.Int("bytes", bytes))
}

func (e eventLogger) OnSendError(frame domain.Frame, err error) {
	e.logger.Debug("chunk dropped", log.Frame(frame.Label), log.Err(err))
}

func (e eventLogger) OnJobDone(frame domain.Frame, err error) {
	if err == nil {
		e.logger.Debug("frame done", log.Frame(frame.Label))
	}
}
