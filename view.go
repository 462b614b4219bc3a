package facet

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Fields is the partial output of a single mapping unit.
type Fields map[string]any

// View is the immutable result of a derivation. It exposes read-only
// accessors only; refreshing a View means deriving a new one.
//
// Views are safe for concurrent reads. The zero View is empty.
type View struct {
	fields map[string]any
}

// newView takes ownership of fields. Callers must not retain the map.
func newView(fields map[string]any) View {
	return View{fields: fields}
}

// Get returns the value stored under key.
func (v View) Get(key string) (any, bool) {
	val, ok := v.fields[key]
	return val, ok
}

// Has reports whether key is present, even when its value is nil.
// Capability guards are built on Has.
func (v View) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := v.fields[k]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of keys in the view.
func (v View) Len() int {
	return len(v.fields)
}

// Keys returns the view's keys in sorted order.
func (v View) Keys() []string {
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fields returns a shallow copy of the view's contents.
func (v View) Fields() Fields {
	out := make(Fields, len(v.fields))
	for k, val := range v.fields {
		out[k] = val
	}
	return out
}

// String returns the string stored under key.
func (v View) String(key string) (string, bool) {
	s, ok := v.fields[key].(string)
	return s, ok
}

// Bool returns the boolean stored under key.
func (v View) Bool(key string) (bool, bool) {
	b, ok := v.fields[key].(bool)
	return b, ok
}

// Time returns the time stored under key.
func (v View) Time(key string) (time.Time, bool) {
	t, ok := v.fields[key].(time.Time)
	return t, ok
}

// View returns the embedded view stored under key. A has-one relation that
// resolved to nothing reports false.
func (v View) View(key string) (View, bool) {
	nested, ok := v.fields[key].(View)
	return nested, ok
}

// Views returns the embedded sequence stored under key.
func (v View) Views(key string) ([]View, bool) {
	nested, ok := v.fields[key].([]View)
	return nested, ok
}

// GoString renders the view with sorted keys, mostly for test failures.
func (v View) GoString() string {
	var b strings.Builder
	b.WriteString("facet.View{")
	for i, k := range v.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %#v", k, v.fields[k])
	}
	b.WriteString("}")
	return b.String()
}
