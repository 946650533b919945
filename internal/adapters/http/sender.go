package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"strings"

	"github.com/bft-labs/loopship/internal/domain"
	"github.com/bft-labs/loopship/internal/ports"
)

const framesEndpoint = "/v1/frames/"

// Sender implements ports.ChunkSender by posting every chunk to an HTTP
// collector.
type Sender struct {
	client   ports.HTTPClient
	baseURL  string
	authKey  string
	hostname string
}

// NewSender creates a sender posting to baseURL. authKey may be empty.
func NewSender(client ports.HTTPClient, baseURL, authKey string) *Sender {
	host, _ := os.Hostname()
	return &Sender{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		authKey:  authKey,
		hostname: host,
	}
}

// Send posts chunk as the body of one request.
func (s *Sender) Send(ctx context.Context, frame domain.Frame, chunk []byte) error {
	endpoint := s.baseURL + framesEndpoint + url.PathEscape(frame.Label)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(chunk))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Loopship-Frame-Id", frame.ID.String())
	req.Header.Set("X-Loopship-Frame-Label", frame.Label)
	req.Header.Set("X-Loopship-Destination", frame.Destination())
	req.Header.Set("X-Agent-Hostname", s.hostname)
	req.Header.Set("X-Agent-OSArch", runtime.GOOS+"/"+runtime.GOARCH)
	if s.authKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.authKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Close is a no-op; the HTTP client owns its connections.
func (s *Sender) Close() error { return nil }

var _ ports.ChunkSender = (*Sender)(nil)
