package ports

import (
	"context"

	"github.com/bft-labs/loopship/internal/domain"
)

// ChunkSender transmits chunks to the destination described by a frame.
type ChunkSender interface {
	// Send transmits one chunk. It performs no retry: a failed chunk is lost.
	Send(ctx context.Context, frame domain.Frame, chunk []byte) error

	// Close releases connections or files held by the sender.
	Close() error
}
