package content

import (
	"fmt"

	"github.com/bft-labs/loopship/pkg/payload"
)

// EncodeField encodes a single field.
var EncodeField = payload.EncoderFunc[Field](func(f Field) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: content is missing", payload.ErrEncoding)
	}
	return f.Encode()
})

// EncodeSequence encodes a sequence of fields.
var EncodeSequence = payload.EncoderFunc[*Sequence](func(s *Sequence) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: content is missing", payload.ErrEncoding)
	}
	return s.Encode()
})
