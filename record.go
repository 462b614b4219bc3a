package facet

// Record is the raw, loosely-structured data for one entity instance as
// returned by an upstream API. Records are treated as read-only; nothing
// in this package writes to a Record it was handed.
type Record map[string]any

// Get returns the value stored under key and whether it is present and
// non-nil. A key explicitly set to nil is reported as absent, matching
// the "null or missing" semantics of upstream JSON payloads.
func (r Record) Get(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Lookup walks keys in order and returns the first present, non-nil value.
// It is the fallback ladder used by the behavior mappers.
func (r Record) Lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r.Get(k); ok {
			return v, true
		}
	}
	return nil, false
}

// Object returns the nested object stored under key.
func (r Record) Object(key string) (Record, bool) {
	v, ok := r.Get(key)
	if !ok {
		return nil, false
	}
	return asRecord(v)
}

// Array returns the nested sequence stored under key.
// Non-sequence values report false.
func (r Record) Array(key string) ([]any, bool) {
	v, ok := r.Get(key)
	if !ok {
		return nil, false
	}
	return asArray(v)
}

// asRecord normalizes the object shapes produced by the JSON and YAML decoders.
func asRecord(v any) (Record, bool) {
	switch o := v.(type) {
	case Record:
		return o, o != nil
	case map[string]any:
		return Record(o), o != nil
	default:
		return nil, false
	}
}

func asArray(v any) ([]any, bool) {
	switch a := v.(type) {
	case []any:
		return a, true
	case []Record:
		out := make([]any, len(a))
		for i := range a {
			out[i] = a[i]
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(a))
		for i := range a {
			out[i] = a[i]
		}
		return out, true
	default:
		return nil, false
	}
}

// truthy reports whether v would be considered present by a relation:
// nil, false, zero numbers and empty strings are falsy. Objects, even
// empty ones, are truthy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case Record:
		return t != nil
	case map[string]any:
		return t != nil
	default:
		return true
	}
}
