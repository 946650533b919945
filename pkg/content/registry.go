package content

import "fmt"

// TypeNames lists the type names understood by ParseField.
var TypeNames = []string{
	String.Name(), Int.Name(), Long.Name(), Double.Name(), Bool.Name(), Hex.Name(),
}

// ParseField builds a parameter of the named type from its text value.
func ParseField(kind, label, value string, constant bool) (Field, error) {
	switch kind {
	case String.Name():
		return parseParameter(String, label, value, constant)
	case Int.Name():
		return parseParameter(Int, label, value, constant)
	case Long.Name():
		return parseParameter(Long, label, value, constant)
	case Double.Name():
		return parseParameter(Double, label, value, constant)
	case Bool.Name():
		return parseParameter(Bool, label, value, constant)
	case Hex.Name():
		return parseParameter(Hex, label, value, constant)
	default:
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownType, kind, TypeNames)
	}
}

func parseParameter[T any](typ Type[T], label, value string, constant bool) (Field, error) {
	v, err := typ.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", typ.Name(), label, err)
	}
	if constant {
		return NewConstant(label, typ, v), nil
	}
	return NewParameter(label, typ, v), nil
}
