package cliconfig

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/loopship/internal/app"
	"github.com/bft-labs/loopship/internal/domain"
	"github.com/bft-labs/loopship/pkg/content"
	"github.com/bft-labs/loopship/pkg/log"
	"github.com/bft-labs/loopship/pkg/loop"
	"github.com/bft-labs/loopship/pkg/payload"
)

// DefaultFrameRate is used when a frame omits its rate.
const DefaultFrameRate = time.Second

// paramTypeFile marks a payload parameter backed by a watched file.
const paramTypeFile = "file"

// BuildJobs turns the configured frames into streamer jobs.
func BuildJobs(cfg Config, logger log.Logger) ([]app.Job, error) {
	jobs := make([]app.Job, 0, len(cfg.Frames))
	seen := make(map[string]bool, len(cfg.Frames))
	for i, fc := range cfg.Frames {
		job, err := buildJob(cfg, fc, logger)
		if err != nil {
			return nil, fmt.Errorf("frame #%d: %w", i+1, err)
		}
		if seen[job.Frame.Label] {
			return nil, fmt.Errorf("%w: duplicate frame label %q", domain.ErrInvalidConfig, job.Frame.Label)
		}
		seen[job.Frame.Label] = true
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func buildJob(cfg Config, fc FrameConfig, logger log.Logger) (app.Job, error) {
	frame, err := buildFrame(fc)
	if err != nil {
		return app.Job{}, err
	}

	repeat := loop.Infinite
	if fc.Repeat != nil {
		repeat = *fc.Repeat
	}

	switch {
	case fc.File != "" && fc.Payload != nil:
		return app.Job{}, fmt.Errorf("%w: frame %q: file and payload are exclusive", domain.ErrInvalidConfig, frame.Label)

	case fc.File != "":
		size := fc.Size
		if size == 0 {
			size = cfg.ChunkSize
		}
		l, err := loop.NewFileLoop(resolvePath(cfg.BaseDir, fc.File), size, repeat,
			loop.WithOffset(fc.Offset),
			loop.WithLogger(logger),
		)
		if err != nil {
			return app.Job{}, fmt.Errorf("frame %q: %w", frame.Label, err)
		}
		return app.Job{Frame: frame, Loop: l}, nil

	case fc.Payload != nil:
		l, watchers, err := buildPayloadLoop(cfg, frame.Label, fc.Payload, repeat, logger)
		if err != nil {
			return app.Job{}, fmt.Errorf("frame %q: %w", frame.Label, err)
		}
		return app.Job{Frame: frame, Loop: l, Watchers: watchers}, nil

	default:
		return app.Job{}, fmt.Errorf("%w: frame %q: one of file or payload is required", domain.ErrInvalidConfig, frame.Label)
	}
}

func buildFrame(fc FrameConfig) (domain.Frame, error) {
	rate := DefaultFrameRate
	if fc.Rate != "" {
		d, err := time.ParseDuration(fc.Rate)
		if err != nil {
			return domain.Frame{}, fmt.Errorf("%w: frame %q: parse rate: %v", domain.ErrInvalidConfig, fc.Label, err)
		}
		rate = d
	}

	frame := domain.NewFrame(fc.Label, fc.DstIP, fc.DstPort, rate)
	if fc.ID != "" {
		id, err := uuid.Parse(fc.ID)
		if err != nil {
			return domain.Frame{}, fmt.Errorf("%w: frame %q: parse id: %v", domain.ErrInvalidConfig, fc.Label, err)
		}
		frame.ID = id
	}
	frame.SrcPort = fc.SrcPort
	frame.Except = fc.Except

	if err := frame.Validate(); err != nil {
		return domain.Frame{}, err
	}
	return frame, nil
}

func buildPayloadLoop(cfg Config, label string, pc *PayloadConfig, repeat int, logger log.Logger) (*loop.PayloadLoop, []app.Watcher, error) {
	if len(pc.Params) == 0 {
		return nil, nil, fmt.Errorf("%w: payload has no param", domain.ErrInvalidConfig)
	}

	var (
		fields   []content.Field
		watchers []app.Watcher
	)
	for _, p := range pc.Params {
		if p.Type == paramTypeFile {
			f, err := content.NewFile(p.Label, resolvePath(cfg.BaseDir, p.Value), logger)
			if err != nil {
				return nil, nil, err
			}
			fields = append(fields, f)
			if !pc.Computed {
				watchers = append(watchers, f)
			}
			continue
		}
		f, err := content.ParseField(p.Type, p.Label, p.Value, p.Constant)
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, f)
	}

	seq := content.NewSequence(label, pc.Size, fields...)

	var (
		p   *payload.Payload[*content.Sequence]
		err error
	)
	if pc.Computed {
		p, err = payload.NewComputed[*content.Sequence](content.EncodeSequence, seq)
	} else {
		p, err = payload.New[*content.Sequence](content.EncodeSequence, seq)
	}
	if err != nil {
		return nil, nil, err
	}

	l, err := loop.NewPayloadLoop(p, repeat, loop.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return l, watchers, nil
}

func resolvePath(base, p string) string {
	if base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
