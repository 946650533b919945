package payload

import "errors"

var (
	// ErrInvalidArgument is returned when a payload is built without an encoder.
	ErrInvalidArgument = errors.New("payload: invalid argument")

	// ErrEncoding is returned when the encoder rejects the content.
	ErrEncoding = errors.New("payload: encoding failed")
)
