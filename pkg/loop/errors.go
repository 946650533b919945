package loop

import (
	"errors"

	"github.com/bft-labs/loopship/pkg/payload"
)

// Loop errors. They can be checked with errors.Is.
var (
	// ErrInvalidArgument is returned by constructors given a bad parameter.
	ErrInvalidArgument = errors.New("loop: invalid argument")

	// ErrEmptySource is returned by Next when a traversal finds nothing to read.
	ErrEmptySource = errors.New("loop: source is empty")

	// ErrSource wraps I/O failures while reading the source. The iterator is
	// exhausted afterwards.
	ErrSource = errors.New("loop: source failure")

	// ErrExhausted is returned by Next when HasNext reports false.
	ErrExhausted = errors.New("loop: stopped")

	// ErrEncoding is returned when a payload cannot be encoded.
	ErrEncoding = payload.ErrEncoding
)
