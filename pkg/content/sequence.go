package content

import (
	"fmt"

	"github.com/bft-labs/loopship/pkg/payload"
)

// Sequence is an ordered list of fields encoded back to back. A positive size
// fixes the encoded length: shorter encodings are zero-padded, longer ones
// truncated.
type Sequence struct {
	label  string
	size   int
	fields []Field
}

// NewSequence creates a sequence. Use size 0 for an encoding as long as its
// fields.
func NewSequence(label string, size int, fields ...Field) *Sequence {
	return &Sequence{label: label, size: size, fields: append([]Field(nil), fields...)}
}

func (s *Sequence) Label() string { return s.label }

// Size returns the fixed encoded size, 0 meaning unbounded.
func (s *Sequence) Size() int { return s.size }

// Fields returns a copy of the sequence fields.
func (s *Sequence) Fields() []Field { return append([]Field(nil), s.fields...) }

// Encode concatenates the encodings of all fields.
func (s *Sequence) Encode() ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: sequence is missing", payload.ErrEncoding)
	}
	var out []byte
	if s.size > 0 {
		out = make([]byte, 0, s.size)
	}
	for _, f := range s.fields {
		if f == nil {
			return nil, fmt.Errorf("%w: sequence %q has a missing field", payload.ErrEncoding, s.label)
		}
		b, err := f.Encode()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Label(), err)
		}
		out = append(out, b...)
	}
	if s.size <= 0 {
		return out, nil
	}
	if len(out) >= s.size {
		return out[:s.size], nil
	}
	return append(out, make([]byte, s.size-len(out))...), nil
}

// Subscribe registers l on every field of the sequence.
func (s *Sequence) Subscribe(l payload.Listener) func() {
	if s == nil {
		return func() {}
	}
	cancels := make([]func(), 0, len(s.fields))
	for _, f := range s.fields {
		if f != nil {
			cancels = append(cancels, f.Subscribe(l))
		}
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

var _ Field = (*Sequence)(nil)
