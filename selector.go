package facet

// Selector is a configuration value that is either a literal or a function
// of the source record. The zero Selector is unset; mappers use IsSet to
// decide whether an override was supplied at construction.
type Selector[R any] struct {
	literal R
	fn      func(Record) (R, error)
	set     bool
}

// Literal returns a Selector that always resolves to v.
func Literal[R any](v R) Selector[R] {
	return Selector[R]{literal: v, set: true}
}

// From returns a Selector that resolves by calling fn with the source record.
// A nil fn yields an unset Selector.
func From[R any](fn func(Record) (R, error)) Selector[R] {
	if fn == nil {
		return Selector[R]{}
	}
	return Selector[R]{fn: fn, set: true}
}

// Func adapts an infallible function into a Selector.
func Func[R any](fn func(Record) R) Selector[R] {
	if fn == nil {
		return Selector[R]{}
	}
	return From(func(src Record) (R, error) {
		return fn(src), nil
	})
}

// IsSet reports whether the Selector carries a literal or a function.
func (s Selector[R]) IsSet() bool {
	return s.set
}

// Resolve returns the literal, or the result of the selector function.
// Errors from the function are returned untouched. Resolving an unset
// Selector yields the zero value of R.
func (s Selector[R]) Resolve(src Record) (R, error) {
	if s.fn != nil {
		return s.fn(src)
	}
	return s.literal, nil
}

// Key returns a Selector reading the raw value stored under key.
func Key(key string) Selector[any] {
	return Func(func(src Record) any {
		v, _ := src.Get(key)
		return v
	})
}
