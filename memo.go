package facet

import (
	"errors"
	"sync"
)

// ErrNotCached is returned by Memo when key does not hold a cached field
// of the requested type.
var ErrNotCached = errors.New("facet: field is not cached")

// Lazy is an expensive field computed at most once per view. The first
// call to Value runs the computation; later calls reuse its result and
// error. Lazy is safe for concurrent use.
type Lazy[T any] struct {
	once sync.Once
	fn   func() (T, error)
	val  T
	err  error
}

// Value returns the cached result, computing it on first use.
func (l *Lazy[T]) Value() (T, error) {
	l.once.Do(func() {
		l.val, l.err = l.fn()
		l.fn = nil
	})
	return l.val, l.err
}

// Cached contributes a lazily computed field under key. fn sees the source
// and the accumulator as it stood when this unit ran, so later units do
// not change what it computes.
func Cached[T any](key string, fn func(src Record, acc View) (T, error)) Unit {
	return func(src Record, acc View, _ Build) (Fields, error) {
		return Fields{key: &Lazy[T]{fn: func() (T, error) {
			return fn(src, acc)
		}}}, nil
	}
}

// Memo resolves a cached field on v.
func Memo[T any](v View, key string) (T, error) {
	raw, _ := v.Get(key)
	lazy, ok := raw.(*Lazy[T])
	if !ok {
		var zero T
		return zero, ErrNotCached
	}
	return lazy.Value()
}
