package content

import "errors"

var (
	// ErrConstant is returned when setting the value of a constant parameter.
	ErrConstant = errors.New("content: parameter is constant")

	// ErrUnknownType is returned by ParseField for an unregistered type name.
	ErrUnknownType = errors.New("content: unknown type")
)
