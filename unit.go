package facet

// Unit is a mapping unit: a pure function of the source record and the
// view accumulated so far, returning a partial set of fields to merge.
//
// build re-enters the engine so a unit can derive nested records through
// the same contract as the top-level view.
type Unit func(src Record, acc View, build Build) (Fields, error)

// Build derives src through units. It is handed to every Unit so relation
// embedders can compose recursively.
type Build func(src Record, units ...Unit) (View, error)

// Deriver is anything carrying an ordered list of units. Pipelines satisfy
// it, as does the Units slice.
type Deriver interface {
	Units() []Unit
}

// Units is an ad hoc unit list usable wherever a Deriver is expected.
type Units []Unit

// Units returns the list itself.
func (u Units) Units() []Unit {
	return u
}

// Nested is shorthand for an inline nested derivation.
func Nested(units ...Unit) Units {
	return Units(units)
}

// Const contributes a fixed value under key.
func Const(key string, value any) Unit {
	return func(_ Record, _ View, _ Build) (Fields, error) {
		return Fields{key: value}, nil
	}
}

// Field contributes the resolved selector under key.
func Field[R any](key string, sel Selector[R]) Unit {
	return func(src Record, _ View, _ Build) (Fields, error) {
		v, err := sel.Resolve(src)
		if err != nil {
			return nil, err
		}
		return Fields{key: v}, nil
	}
}

// Rename copies the raw value under from into to. Absent values map to nil.
func Rename(from, to string) Unit {
	return func(src Record, _ View, _ Build) (Fields, error) {
		v, _ := src.Get(from)
		return Fields{to: v}, nil
	}
}

// Pick copies the listed keys verbatim. Keys absent from the source are
// omitted rather than set to nil.
func Pick(keys ...string) Unit {
	return func(src Record, _ View, _ Build) (Fields, error) {
		out := make(Fields, len(keys))
		for _, k := range keys {
			if v, ok := src[k]; ok {
				out[k] = v
			}
		}
		return out, nil
	}
}
