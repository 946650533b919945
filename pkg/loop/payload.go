package loop

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/loopship/pkg/log"
	"github.com/bft-labs/loopship/pkg/payload"
)

// PayloadLoop replays the encoding of a payload, one chunk per pull.
//
// Computed payloads are re-encoded on every pull. Reactive payloads are
// encoded once per iterator and then only when their content reports a
// change; a pull returns the most recent completed encoding, so intermediate
// values written between two pulls may never be observed.
type PayloadLoop struct {
	src    payload.Source
	repeat int
	opts   options
}

// NewPayloadLoop creates a loop over src producing repeat chunks. Use
// Infinite to loop forever; zero or any other negative repeat produces no
// chunk at all.
func NewPayloadLoop(src payload.Source, repeat int, opts ...Option) (*PayloadLoop, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: payload is missing", ErrInvalidArgument)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &PayloadLoop{src: src, repeat: repeat, opts: o}, nil
}

// Repeat returns the configured number of pulls.
func (l *PayloadLoop) Repeat() int { return l.repeat }

// Iterator returns a computed or reactive iterator depending on the payload.
// A reactive iterator subscribes to the payload immediately and keeps the
// subscription until Close.
func (l *PayloadLoop) Iterator(ctx context.Context) Iterator {
	if ctx == nil {
		ctx = context.Background()
	}
	if l.src.Computed() {
		return &computedIterator{src: l.src, ctx: ctx, count: counter(l.repeat)}
	}
	return newReactiveIterator(ctx, l.src, counter(l.repeat), l.opts.logger)
}

type computedIterator struct {
	src   payload.Source
	ctx   context.Context
	count counter
	done  bool
}

func (it *computedIterator) HasNext() bool {
	return !it.done && !cancelled(it.ctx) && it.count.remaining()
}

func (it *computedIterator) Next() ([]byte, error) {
	if !it.HasNext() {
		return nil, exhausted(it.ctx)
	}
	it.count.decrement()
	return it.src.Encode()
}

func (it *computedIterator) Close() error {
	it.done = true
	return nil
}

// snapshot is the last completed encoding of a reactive payload.
type snapshot struct {
	data []byte
	err  error
}

type reactiveIterator struct {
	ctx   context.Context
	src   payload.Source
	log   log.Logger
	count counter
	done  bool

	mu     sync.Mutex
	cached snapshot
	cancel func()
}

func newReactiveIterator(ctx context.Context, src payload.Source, count counter, logger log.Logger) *reactiveIterator {
	it := &reactiveIterator{ctx: ctx, src: src, log: logger, count: count}
	it.mu.Lock()
	it.cancel = src.Subscribe(it.refresh)
	it.mu.Unlock()
	it.refresh()
	return it
}

// refresh re-encodes the payload. It runs on the writer's goroutine when
// called as a change listener. Encoding and storing happen under one lock so
// overlapping refreshes are stored in the order they read the content.
func (it *reactiveIterator) refresh() {
	it.mu.Lock()
	defer it.mu.Unlock()

	data, err := it.src.Encode()
	if err != nil {
		it.log.Debug("payload encoding failed", log.Err(err))
	}
	it.cached = snapshot{data: data, err: err}
}

func (it *reactiveIterator) HasNext() bool {
	return !it.done && !cancelled(it.ctx) && it.count.remaining()
}

func (it *reactiveIterator) Next() ([]byte, error) {
	if !it.HasNext() {
		return nil, exhausted(it.ctx)
	}
	it.count.decrement()

	it.mu.Lock()
	s := it.cached
	it.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]byte(nil), s.data...), nil
}

func (it *reactiveIterator) Close() error {
	it.done = true
	it.mu.Lock()
	cancel := it.cancel
	it.cancel = nil
	it.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

func exhausted(ctx context.Context) error {
	if err := context.Cause(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrExhausted, err)
	}
	return ErrExhausted
}
