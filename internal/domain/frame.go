package domain

import (
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Frame describes where and how often the chunks of one loop are sent.
// It is pure configuration: the bytes themselves come from the loop.
type Frame struct {
	// ID uniquely identifies the frame
	ID uuid.UUID

	// Label is the human-readable frame name
	Label string

	// Rate is the delay between two chunks
	Rate time.Duration

	// SrcPort is the local port to bind, 0 for any
	SrcPort int

	// DstIP is the destination address
	DstIP string

	// DstPort is the destination port
	DstPort int

	// Except lists the simulations in which the frame is not sent
	Except []string
}

// NewFrame creates a frame with a fresh ID.
func NewFrame(label, dstIP string, dstPort int, rate time.Duration) Frame {
	return Frame{
		ID:      uuid.New(),
		Label:   label,
		Rate:    rate,
		DstIP:   dstIP,
		DstPort: dstPort,
	}
}

// Validate checks the frame invariants.
func (f Frame) Validate() error {
	if f.Label == "" {
		return fmt.Errorf("%w: frame label is missing", ErrInvalidConfig)
	}
	if f.Rate <= 0 {
		return fmt.Errorf("%w: frame %q: rate must be positive", ErrInvalidConfig, f.Label)
	}
	if f.DstIP == "" {
		return fmt.Errorf("%w: frame %q: destination IP is missing", ErrInvalidConfig, f.Label)
	}
	if net.ParseIP(f.DstIP) == nil {
		return fmt.Errorf("%w: frame %q: invalid destination IP %q", ErrInvalidConfig, f.Label, f.DstIP)
	}
	if f.DstPort <= 0 || f.DstPort > 65535 {
		return fmt.Errorf("%w: frame %q: invalid destination port %d", ErrInvalidConfig, f.Label, f.DstPort)
	}
	if f.SrcPort < 0 || f.SrcPort > 65535 {
		return fmt.Errorf("%w: frame %q: invalid source port %d", ErrInvalidConfig, f.Label, f.SrcPort)
	}
	return nil
}

// Destination returns the "ip:port" destination address.
func (f Frame) Destination() string {
	return net.JoinHostPort(f.DstIP, fmt.Sprint(f.DstPort))
}

// ExcludedFrom reports whether the frame must not be sent in simulation.
func (f Frame) ExcludedFrom(simulation string) bool {
	return simulation != "" && slices.Contains(f.Except, simulation)
}
