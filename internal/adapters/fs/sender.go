package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bft-labs/loopship/internal/domain"
	"github.com/bft-labs/loopship/internal/ports"
)

// Sender implements ports.ChunkSender by appending chunks to a writer.
// When meta is set, one line describing each chunk is written to it.
type Sender struct {
	mu     sync.Mutex
	out    io.Writer
	meta   io.Writer
	closer io.Closer
}

// NewWriterSender writes chunks to out. meta may be nil.
func NewWriterSender(out, meta io.Writer) *Sender {
	return &Sender{out: out, meta: meta}
}

// NewFileSender appends chunks to the file at path, creating it if needed.
func NewFileSender(path string, meta io.Writer) (*Sender, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}
	return &Sender{out: f, meta: meta, closer: f}, nil
}

// Send writes chunk to the output.
func (s *Sender) Send(ctx context.Context, frame domain.Frame, chunk []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.out.Write(chunk); err != nil {
		return fmt.Errorf("write chunk: %w", err)
	}
	if s.meta != nil {
		fmt.Fprintf(s.meta, "%s frame=%s id=%s dst=%s bytes=%d\n",
			time.Now().UTC().Format(time.RFC3339Nano), frame.Label, frame.ID, frame.Destination(), len(chunk))
	}
	return nil
}

// Close closes the output file, if the sender opened one.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

var _ ports.ChunkSender = (*Sender)(nil)
