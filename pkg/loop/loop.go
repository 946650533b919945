package loop

import (
	"context"

	"github.com/bft-labs/loopship/pkg/log"
)

// Infinite is the repeat count of a loop that never ends on its own.
const Infinite = -1

// Loop is an immutable description of a byte stream. It owns no resource and
// can hand out any number of independent iterators.
type Loop interface {
	// Iterator returns a new iterator bound to ctx. Cancelling ctx makes the
	// iterator report itself exhausted.
	Iterator(ctx context.Context) Iterator
}

// Iterator pulls chunks from a loop. It is single-use and must not be shared
// between goroutines. Close must be called once the caller is done, whatever
// the reason the pull loop ended.
type Iterator interface {
	// HasNext reports whether Next will produce a chunk. It has no side effect.
	HasNext() bool

	// Next returns the next chunk. The returned slice is owned by the caller.
	Next() ([]byte, error)

	// Close releases the file handle or subscription held by the iterator.
	// It is idempotent and always returns nil.
	Close() error
}

// counter tracks the remaining traversals of an iterator.
// -1 is unbounded, anything else below 1 is done.
type counter int

func (c counter) remaining() bool {
	return c == Infinite || c > 0
}

func (c *counter) decrement() {
	if *c != Infinite && *c > 0 {
		*c--
	}
}

// Option configures a loop.
type Option func(*options)

type options struct {
	offset int64
	logger log.Logger
}

func defaultOptions() options {
	return options{logger: log.NewNoopLogger()}
}

// WithOffset makes the first traversal of a file loop start n bytes into the
// file. Later traversals start at 0. Ignored by payload loops.
func WithOffset(n int64) Option {
	return func(o *options) {
		o.offset = n
	}
}

// WithLogger sets the logger used by the loop's iterators.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// cancelled reports whether ctx has been cancelled.
func cancelled(ctx context.Context) bool {
	return ctx.Err() != nil
}
