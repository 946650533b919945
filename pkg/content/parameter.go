package content

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/loopship/pkg/payload"
)

// Field is a labelled piece of content that can encode itself and report
// its changes.
type Field interface {
	payload.ChangeSource

	// Label names the field.
	Label() string

	// Encode returns the current encoding of the field.
	Encode() ([]byte, error)
}

// Parameter is a labelled, typed value. Writers call Set; every successful
// Set notifies subscribers synchronously.
type Parameter[T any] struct {
	label    string
	typ      Type[T]
	constant bool

	mu    sync.RWMutex
	value T

	listeners listeners
}

// NewParameter creates a mutable parameter.
func NewParameter[T any](label string, typ Type[T], value T) *Parameter[T] {
	return &Parameter[T]{label: label, typ: typ, value: value}
}

// NewConstant creates a parameter whose value cannot change.
func NewConstant[T any](label string, typ Type[T], value T) *Parameter[T] {
	return &Parameter[T]{label: label, typ: typ, value: value, constant: true}
}

// Label returns the parameter label.
func (p *Parameter[T]) Label() string { return p.label }

// Type returns the parameter type.
func (p *Parameter[T]) Type() Type[T] { return p.typ }

// Constant reports whether Set is rejected.
func (p *Parameter[T]) Constant() bool { return p.constant }

// Value returns the current value.
func (p *Parameter[T]) Value() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set replaces the value and notifies subscribers.
func (p *Parameter[T]) Set(v T) error {
	if p.constant {
		return fmt.Errorf("%w: %s", ErrConstant, p.label)
	}
	p.mu.Lock()
	p.value = v
	p.mu.Unlock()

	p.listeners.notify()
	return nil
}

// SetText parses s with the parameter type and sets the result.
func (p *Parameter[T]) SetText(s string) error {
	if p.typ == nil {
		return errors.New("content: parameter type is missing")
	}
	v, err := p.typ.Parse(s)
	if err != nil {
		return fmt.Errorf("parse %s %q: %w", p.typ.Name(), p.label, err)
	}
	return p.Set(v)
}

// Encode encodes the current value with the parameter type.
func (p *Parameter[T]) Encode() ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: parameter is missing", payload.ErrEncoding)
	}
	if p.typ == nil {
		return nil, fmt.Errorf("%w: parameter %q has no type", payload.ErrEncoding, p.label)
	}
	return p.typ.Encode(p.Value())
}

// Subscribe registers l for value changes. Constant parameters never notify.
func (p *Parameter[T]) Subscribe(l payload.Listener) func() {
	if p == nil || p.constant {
		return func() {}
	}
	return p.listeners.add(l)
}

var _ Field = (*Parameter[string])(nil)
