package payload

import (
	"errors"
	"fmt"
)

// Payload binds content to its encoder. The content is only read, never
// modified; writers mutate it through their own API.
type Payload[T any] struct {
	encoder  Encoder[T]
	content  T
	computed bool
}

// New creates a reactive payload: loops re-encode it only when the content
// notifies a change.
func New[T any](encoder Encoder[T], content T) (*Payload[T], error) {
	return newPayload(encoder, content, false)
}

// NewComputed creates a payload that loops re-encode on every pull.
func NewComputed[T any](encoder Encoder[T], content T) (*Payload[T], error) {
	return newPayload(encoder, content, true)
}

func newPayload[T any](encoder Encoder[T], content T, computed bool) (*Payload[T], error) {
	if encoder == nil {
		return nil, fmt.Errorf("%w: encoder is missing", ErrInvalidArgument)
	}
	return &Payload[T]{encoder: encoder, content: content, computed: computed}, nil
}

// Content returns the wrapped content.
func (p *Payload[T]) Content() T {
	return p.content
}

// Computed reports whether the payload is re-encoded on every pull.
func (p *Payload[T]) Computed() bool {
	return p.computed
}

// Encode encodes the current content. Encoder failures are returned wrapping
// ErrEncoding.
func (p *Payload[T]) Encode() ([]byte, error) {
	b, err := p.encoder.Encode(p.content)
	if err != nil {
		if errors.Is(err, ErrEncoding) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return b, nil
}

// Subscribe forwards to the content when it implements ChangeSource.
func (p *Payload[T]) Subscribe(l Listener) func() {
	if cs, ok := any(p.content).(ChangeSource); ok {
		return cs.Subscribe(l)
	}
	return func() {}
}

var _ Source = (*Payload[[]byte])(nil)
