package loop

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bft-labs/loopship/pkg/log"
)

// readerSize is the size of the buffered reader wrapping the open file.
const readerSize = 64 * 1024

// FileLoop replays a file as a sequence of fixed-size chunks.
//
// When the file size is not a multiple of the chunk size, the chunk that
// reaches the end of the file is completed with the first bytes of the next
// traversal, so chunk boundaries drift across traversals. A bounded loop
// emits exactly repeat*size(file)-offset bytes: if the last traversal ends
// inside a chunk, that chunk is emitted short.
type FileLoop struct {
	path   string
	size   int
	repeat int
	opts   options

	open func(name string) (*os.File, error)
}

// NewFileLoop creates a loop reading path in chunks of size bytes, repeat
// times. Use Infinite to loop forever; zero or any other negative repeat
// produces no chunk at all.
func NewFileLoop(path string, size, repeat int, opts ...Option) (*FileLoop, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: file is missing", ErrInvalidArgument)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be > 0, got %d", ErrInvalidArgument, size)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.offset < 0 {
		return nil, fmt.Errorf("%w: offset must be >= 0, got %d", ErrInvalidArgument, o.offset)
	}
	return &FileLoop{
		path:   path,
		size:   size,
		repeat: repeat,
		opts:   o,
		open:   os.Open,
	}, nil
}

// Path returns the file replayed by the loop.
func (l *FileLoop) Path() string { return l.path }

// Size returns the chunk size in bytes.
func (l *FileLoop) Size() int { return l.size }

// Repeat returns the configured number of traversals.
func (l *FileLoop) Repeat() int { return l.repeat }

// Offset returns where the first traversal starts.
func (l *FileLoop) Offset() int64 { return l.opts.offset }

// Iterator returns a new iterator over the file. The file is opened lazily on
// the first call to Next.
func (l *FileLoop) Iterator(ctx context.Context) Iterator {
	if ctx == nil {
		ctx = context.Background()
	}
	return &fileIterator{
		loop:  l,
		ctx:   ctx,
		log:   l.opts.logger,
		start: l.opts.offset,
		count: counter(l.repeat),
	}
}

type fileIterator struct {
	loop *FileLoop
	ctx  context.Context
	log  log.Logger

	file   *os.File
	reader *bufio.Reader
	start  int64 // position the next open seeks to
	read   int64 // bytes read during the current traversal

	buf    []byte
	cursor int
	count  counter
	done   bool
	closed bool
}

func (it *fileIterator) HasNext() bool {
	return !it.done && !cancelled(it.ctx) && it.count.remaining()
}

func (it *fileIterator) Next() ([]byte, error) {
	if !it.HasNext() {
		return nil, it.stopped()
	}
	if it.buf == nil {
		it.buf = make([]byte, it.loop.size)
	}

	for {
		if cancelled(it.ctx) {
			it.finish()
			return nil, it.stopped()
		}

		if it.file == nil {
			if err := it.openFile(); err != nil {
				it.finish()
				return nil, fmt.Errorf("%w: %w", ErrSource, err)
			}
		}

		n, err := it.reader.Read(it.buf[it.cursor:])
		it.cursor += n
		it.read += int64(n)

		if it.cursor == len(it.buf) {
			it.cursor = 0
			chunk := bytes.Clone(it.buf)
			// Close the traversal now if it ended on the chunk boundary, so
			// that HasNext sees the decremented counter.
			if _, perr := it.reader.Peek(1); errors.Is(perr, io.EOF) {
				it.endTraversal()
			}
			return chunk, nil
		}

		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF):
			if it.read == 0 {
				it.finish()
				return nil, fmt.Errorf("%w: nothing to read in %s from offset %d", ErrEmptySource, it.loop.path, it.start)
			}
			it.endTraversal()
			if it.count.remaining() {
				// wrap around and keep filling the same buffer
				continue
			}
			if it.cursor == 0 {
				return nil, it.stopped()
			}
			chunk := bytes.Clone(it.buf[:it.cursor])
			it.cursor = 0
			return chunk, nil
		default:
			it.finish()
			return nil, fmt.Errorf("%w: read %s: %w", ErrSource, it.loop.path, err)
		}
	}
}

func (it *fileIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.finish()
	return nil
}

func (it *fileIterator) openFile() error {
	f, err := it.loop.open(it.loop.path)
	if err != nil {
		return err
	}
	if it.start > 0 {
		if _, err := f.Seek(it.start, io.SeekStart); err != nil {
			f.Close()
			return fmt.Errorf("seek %s to %d: %w", it.loop.path, it.start, err)
		}
	}
	it.file = f
	it.reader = bufio.NewReaderSize(f, readerSize)
	it.read = 0
	it.log.Debug("file opened", log.Path(it.loop.path), log.Int64("offset", it.start))
	return nil
}

// endTraversal releases the file after a complete pass and counts it.
func (it *fileIterator) endTraversal() {
	it.closeFile()
	it.start = 0
	it.read = 0
	it.count.decrement()
	it.log.Debug("traversal complete", log.Path(it.loop.path), log.Int("remaining", int(it.count)))
}

func (it *fileIterator) finish() {
	it.done = true
	it.closeFile()
}

func (it *fileIterator) closeFile() {
	if it.file == nil {
		return
	}
	if err := it.file.Close(); err != nil {
		it.log.Debug("close failed", log.Path(it.loop.path), log.Err(err))
	}
	it.file = nil
	it.reader = nil
}

func (it *fileIterator) stopped() error {
	return exhausted(it.ctx)
}
