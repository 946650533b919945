package udp

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/bft-labs/loopship/internal/domain"
	"github.com/bft-labs/loopship/internal/ports"
)

// Sender implements ports.ChunkSender with one UDP socket per frame. Each
// chunk is written as a single datagram.
type Sender struct {
	mu    sync.Mutex
	conns map[string]*net.UDPConn
}

// NewSender creates an empty UDP sender. Sockets are dialed on first use.
func NewSender() *Sender {
	return &Sender{conns: make(map[string]*net.UDPConn)}
}

// Send writes chunk as one datagram to the frame destination.
func (s *Sender) Send(ctx context.Context, frame domain.Frame, chunk []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := s.conn(frame)
	if err != nil {
		return err
	}
	if _, err := conn.Write(chunk); err != nil {
		return fmt.Errorf("write to %s: %w", frame.Destination(), err)
	}
	return nil
}

// Close closes every socket.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	for key, c := range s.conns {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
		delete(s.conns, key)
	}
	return first
}

func (s *Sender) conn(frame domain.Frame) (*net.UDPConn, error) {
	key := frame.ID.String()

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.conns[key]; ok {
		return c, nil
	}

	raddr, err := net.ResolveUDPAddr("udp", frame.Destination())
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", frame.Destination(), err)
	}
	var laddr *net.UDPAddr
	if frame.SrcPort > 0 {
		laddr = &net.UDPAddr{Port: frame.SrcPort}
	}
	c, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", frame.Destination(), err)
	}
	s.conns[key] = c
	return c, nil
}

var _ ports.ChunkSender = (*Sender)(nil)
