package payload

// Listener is notified after the observed content changed. It is called
// synchronously on the goroutine that performed the change.
type Listener func()

// ChangeSource is implemented by content that can report its own changes.
// Subscribe registers l and returns a function removing it again; the
// returned function is safe to call more than once.
type ChangeSource interface {
	Subscribe(l Listener) (cancel func())
}

// Encoder turns a content value into bytes.
type Encoder[T any] interface {
	Encode(content T) ([]byte, error)
}

// EncoderFunc adapts a plain function to Encoder.
type EncoderFunc[T any] func(content T) ([]byte, error)

// Encode calls f(content).
func (f EncoderFunc[T]) Encode(content T) ([]byte, error) {
	return f(content)
}

// Source is the view of a payload that loops consume.
type Source interface {
	// Encode returns the encoding of the current content.
	Encode() ([]byte, error)

	// Computed reports whether the payload must be re-encoded on every pull.
	Computed() bool

	// Subscribe registers l for content changes. Content that cannot change
	// returns a no-op cancel function.
	Subscribe(l Listener) (cancel func())
}
