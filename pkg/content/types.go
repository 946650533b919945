package content

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// Type is a named scalar codec.
type Type[T any] interface {
	// Name is the identifier used in configuration files.
	Name() string

	// Encode returns the wire representation of v.
	Encode(v T) ([]byte, error)

	// Parse reads a value from its configuration text.
	Parse(s string) (T, error)
}

type scalar[T any] struct {
	name   string
	encode func(T) []byte
	parse  func(string) (T, error)
}

func (s scalar[T]) Name() string                 { return s.name }
func (s scalar[T]) Encode(v T) ([]byte, error)   { return s.encode(v), nil }
func (s scalar[T]) Parse(text string) (T, error) { return s.parse(text) }

// Standard types.
var (
	String Type[string] = scalar[string]{
		name:   "string",
		encode: func(v string) []byte { return []byte(v) },
		parse:  func(s string) (string, error) { return s, nil },
	}

	Int Type[int32] = scalar[int32]{
		name:   "int",
		encode: func(v int32) []byte { return binary.BigEndian.AppendUint32(nil, uint32(v)) },
		parse: func(s string) (int32, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 0, 32)
			return int32(n), err
		},
	}

	Long Type[int64] = scalar[int64]{
		name:   "long",
		encode: func(v int64) []byte { return binary.BigEndian.AppendUint64(nil, uint64(v)) },
		parse: func(s string) (int64, error) {
			return strconv.ParseInt(strings.TrimSpace(s), 0, 64)
		},
	}

	Double Type[float64] = scalar[float64]{
		name:   "double",
		encode: func(v float64) []byte { return binary.BigEndian.AppendUint64(nil, math.Float64bits(v)) },
		parse: func(s string) (float64, error) {
			return strconv.ParseFloat(strings.TrimSpace(s), 64)
		},
	}

	Bool Type[bool] = scalar[bool]{
		name: "bool",
		encode: func(v bool) []byte {
			if v {
				return []byte{1}
			}
			return []byte{0}
		},
		parse: func(s string) (bool, error) {
			return strconv.ParseBool(strings.TrimSpace(s))
		},
	}

	Hex Type[[]byte] = scalar[[]byte]{
		name:   "hex",
		encode: func(v []byte) []byte { return append([]byte(nil), v...) },
		parse: func(s string) ([]byte, error) {
			s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
			return hex.DecodeString(s)
		},
	}
)
