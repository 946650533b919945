package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bft-labs/loopship/internal/domain"
	"github.com/bft-labs/loopship/internal/ports"
	"github.com/bft-labs/loopship/pkg/loop"
)

// Watcher keeps a payload source up to date while the streamer runs.
// Watch must return once the watch is installed; the watch itself ends
// when ctx is cancelled.
type Watcher interface {
	Watch(ctx context.Context) error
}

// Job binds a frame to the loop producing its chunks.
type Job struct {
	Frame    domain.Frame
	Loop     loop.Loop
	Watchers []Watcher
}

// StreamerConfig contains configuration for the streamer.
type StreamerConfig struct {
	// Simulation is the active simulation name. Frames listing it in
	// Except are skipped.
	Simulation string

	// ShutdownTimeout bounds how long Stop waits for workers.
	ShutdownTimeout time.Duration
}

// EventHandler receives per-chunk and per-job notifications.
type EventHandler interface {
	OnChunkSent(frame domain.Frame, bytes int)
	OnSendError(frame domain.Frame, err error)
	OnJobDone(frame domain.Frame, err error)
}

// JobStatus is a snapshot of one job's progress.
type JobStatus struct {
	Label   string
	Chunks  int64
	Bytes   int64
	Errors  int64
	Done    bool
	Skipped bool
	Err     error
}

// Status is a snapshot of the streamer.
type Status struct {
	State State
	Jobs  []JobStatus
}

type jobStats struct {
	chunks  atomic.Int64
	bytes   atomic.Int64
	errors  atomic.Int64
	done    atomic.Bool
	skipped atomic.Bool

	mu  sync.Mutex
	err error
}

// Streamer pulls chunks from every job's loop at the frame rate and hands
// them to a ChunkSender.
type Streamer struct {
	config    StreamerConfig
	jobs      []Job
	stats     []*jobStats
	sender    ports.ChunkSender
	logger    ports.Logger
	events    EventHandler
	lifecycle *Lifecycle

	mu   sync.Mutex
	done chan struct{}
}

// NewStreamer creates a streamer. observer and events may be nil.
func NewStreamer(
	config StreamerConfig,
	jobs []Job,
	sender ports.ChunkSender,
	logger ports.Logger,
	observer StateObserver,
	events EventHandler,
) *Streamer {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}
	stats := make([]*jobStats, len(jobs))
	for i := range stats {
		stats[i] = &jobStats{}
	}
	return &Streamer{
		config:    config,
		jobs:      jobs,
		stats:     stats,
		sender:    sender,
		logger:    logger,
		events:    events,
		lifecycle: NewLifecycle(logger, observer),
	}
}

// Start launches one worker per job and returns immediately. The streamer
// stops by itself once every bounded loop is exhausted.
func (s *Streamer) Start(ctx context.Context) error {
	if !s.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}

	// Workers are registered before leaving Stopped so that a Stop issued
	// while starting always waits for all of them.
	workers := 0
	for _, job := range s.jobs {
		if !job.Frame.ExcludedFrom(s.config.Simulation) {
			workers += 1 + len(job.Watchers)
		}
	}
	for i := 0; i < workers; i++ {
		s.lifecycle.AddWorker()
	}

	done := make(chan struct{})
	s.mu.Lock()
	err := s.lifecycle.TransitionTo(StateStarting, "start requested")
	if err == nil {
		s.done = done
	}
	s.mu.Unlock()
	if err != nil {
		for i := 0; i < workers; i++ {
			s.lifecycle.WorkerDone()
		}
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.lifecycle.SetCancel(cancel)

	var streams sync.WaitGroup
	for i, job := range s.jobs {
		st := s.stats[i]
		if job.Frame.ExcludedFrom(s.config.Simulation) {
			st.skipped.Store(true)
			st.done.Store(true)
			s.logger.Info("frame excluded from simulation",
				ports.String("frame", job.Frame.Label),
				ports.String("simulation", s.config.Simulation),
			)
			continue
		}

		for _, w := range job.Watchers {
			go s.watch(runCtx, job.Frame, w)
		}

		streams.Add(1)
		go func(job Job, st *jobStats) {
			defer streams.Done()
			s.stream(runCtx, job, st)
		}(job, st)
	}

	if err := s.lifecycle.TransitionTo(StateRunning, "workers started"); err != nil {
		// Stop ran while starting, possibly before the cancel func was set.
		cancel()
	}
	go s.complete(&streams, cancel, done)
	return nil
}

// complete waits for every worker, then settles the lifecycle in Stopped.
func (s *Streamer) complete(streams *sync.WaitGroup, cancel context.CancelFunc, done chan struct{}) {
	streams.Wait()
	// Watchers only live as long as the streams they feed.
	cancel()
	s.lifecycle.Wait()
	if s.lifecycle.State() == StateRunning {
		_ = s.lifecycle.TransitionTo(StateStopping, "all jobs finished")
	}
	_ = s.lifecycle.TransitionTo(StateStopped, "workers exited")
	close(done)
}

// Stop cancels every worker and waits for them up to the shutdown timeout.
func (s *Streamer) Stop() error {
	if !s.lifecycle.CanStop() {
		return domain.ErrNotRunning
	}
	err := s.lifecycle.TransitionTo(StateStopping, "stop requested")
	if err != nil && s.lifecycle.State() != StateStopping {
		return err
	}
	s.lifecycle.Cancel()

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if err := s.lifecycle.WaitWithTimeout(s.config.ShutdownTimeout); err != nil {
		return err
	}
	<-done
	return nil
}

// Wait blocks until the streamer has stopped or ctx is cancelled.
func (s *Streamer) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return domain.ErrNotRunning
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a snapshot of the streamer state and job counters.
func (s *Streamer) Status() Status {
	status := Status{
		State: s.lifecycle.State(),
		Jobs:  make([]JobStatus, len(s.jobs)),
	}
	for i, job := range s.jobs {
		st := s.stats[i]
		st.mu.Lock()
		err := st.err
		st.mu.Unlock()
		status.Jobs[i] = JobStatus{
			Label:   job.Frame.Label,
			Chunks:  st.chunks.Load(),
			Bytes:   st.bytes.Load(),
			Errors:  st.errors.Load(),
			Done:    st.done.Load(),
			Skipped: st.skipped.Load(),
			Err:     err,
		}
	}
	return status
}

// stream sends one chunk per tick until the iterator is exhausted.
func (s *Streamer) stream(ctx context.Context, job Job, st *jobStats) {
	defer s.lifecycle.WorkerDone()

	it := job.Loop.Iterator(ctx)
	defer it.Close()

	ticker := time.NewTicker(job.Frame.Rate)
	defer ticker.Stop()

	s.logger.Info("streaming frame",
		ports.String("frame", job.Frame.Label),
		ports.String("destination", job.Frame.Destination()),
		ports.Duration("rate", job.Frame.Rate),
	)

	for it.HasNext() {
		chunk, err := it.Next()
		if err != nil {
			s.finish(job.Frame, st, err)
			return
		}

		if err := s.sender.Send(ctx, job.Frame, chunk); err != nil {
			st.errors.Add(1)
			s.logger.Error("send failed",
				ports.String("frame", job.Frame.Label),
				ports.Int("bytes", len(chunk)),
				ports.Err(err),
			)
			if s.events != nil {
				s.events.OnSendError(job.Frame, err)
			}
		} else {
			st.chunks.Add(1)
			st.bytes.Add(int64(len(chunk)))
			if s.events != nil {
				s.events.OnChunkSent(job.Frame, len(chunk))
			}
		}

		select {
		case <-ctx.Done():
			s.finish(job.Frame, st, context.Cause(ctx))
			return
		case <-ticker.C:
		}
	}
	s.finish(job.Frame, st, nil)
}

func (s *Streamer) finish(frame domain.Frame, st *jobStats, err error) {
	switch {
	case err == nil:
		s.logger.Info("frame loop exhausted",
			ports.String("frame", frame.Label),
			ports.Int64("chunks", st.chunks.Load()),
		)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		s.logger.Info("frame stopped", ports.String("frame", frame.Label))
		err = nil
	default:
		s.logger.Error("frame loop failed", ports.String("frame", frame.Label), ports.Err(err))
	}

	st.mu.Lock()
	st.err = err
	st.mu.Unlock()
	st.done.Store(true)

	if s.events != nil {
		s.events.OnJobDone(frame, err)
	}
}

// watch installs w, retrying with backoff until it succeeds or ctx ends.
func (s *Streamer) watch(ctx context.Context, frame domain.Frame, w Watcher) {
	defer s.lifecycle.WorkerDone()

	b := newBackoff(DefaultBackoffInitial, DefaultBackoffMax)
	for {
		err := w.Watch(ctx)
		if err == nil {
			<-ctx.Done()
			return
		}
		s.logger.Warn("watcher failed, retrying",
			ports.String("frame", frame.Label),
			ports.Duration("backoff", b.Current()),
			ports.Err(err),
		)
		if !b.Wait(ctx) {
			return
		}
	}
}
