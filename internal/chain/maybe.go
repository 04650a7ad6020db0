package chain

// Maybe holds a value that may be absent.
type Maybe[T any] struct {
	value   T
	present bool
}

// Some returns a present Maybe holding v.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, present: true}
}

// None returns an empty Maybe.
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Get returns the value and whether it is present.
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.present
}

func (m Maybe[T]) IsPresent() bool {
	return m.present
}

// OrElse returns m when present, otherwise the result of alt. alt is not
// called when m is present.
func (m Maybe[T]) OrElse(alt func() Maybe[T]) Maybe[T] {
	if m.present {
		return m
	}
	return alt()
}
