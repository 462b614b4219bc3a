package facet

import "errors"

// ErrNilUnit is returned when a derivation is handed a nil Unit.
var ErrNilUnit = errors.New("facet: nil unit")

// Derive runs units over src in order and returns the merged View.
//
// Each unit sees the source and an immutable snapshot of everything merged
// so far. Its output is shallow-merged onto the accumulator, with later
// units overriding earlier ones on key collision. The first unit error
// aborts the derivation and is returned as-is; no partial View escapes.
func Derive(src Record, units ...Unit) (View, error) {
	return DeriveSeeded(src, nil, units...)
}

// DeriveSeeded is Derive with an initial accumulator. Seed keys are
// visible to every unit and may be overridden like any other key.
func DeriveSeeded(src Record, seed Fields, units ...Unit) (View, error) {
	acc := make(map[string]any, len(seed))
	for k, v := range seed {
		acc[k] = v
	}

	for _, unit := range units {
		if unit == nil {
			return View{}, ErrNilUnit
		}
		part, err := unit(src, newView(acc), build)
		if err != nil {
			return View{}, err
		}
		acc = merge(acc, part)
	}

	return newView(acc), nil
}

// build is the re-entrant callback handed to units.
func build(src Record, units ...Unit) (View, error) {
	return Derive(src, units...)
}

// merge returns a new map holding acc overlaid with part. acc is never
// written to, so snapshots handed to earlier units stay stable.
func merge(acc map[string]any, part Fields) map[string]any {
	if len(part) == 0 {
		return acc
	}
	out := make(map[string]any, len(acc)+len(part))
	for k, v := range acc {
		out[k] = v
	}
	for k, v := range part {
		out[k] = v
	}
	return out
}
