package facet

type relationConfig struct {
	target string
	raw    Selector[any]
}

// RelationOption configures HasOne and HasMany.
type RelationOption func(*relationConfig)

// Into writes the relation under target instead of the source key.
func Into(target string) RelationOption {
	return func(c *relationConfig) {
		c.target = target
	}
}

// Select overrides where the nested raw data is read from.
// By default it is the source value under the relation key.
func Select(sel Selector[any]) RelationOption {
	return func(c *relationConfig) {
		c.raw = sel
	}
}

func newRelationConfig(key string, opts []RelationOption) *relationConfig {
	cfg := &relationConfig{target: key, raw: Key(key)}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// HasOne embeds a single nested view derived through nested.
//
// Absent or falsy raw data, or data that is not an object, yields a nil
// entry under the target key. Absence is never an error; failures inside
// the nested derivation abort the parent.
func HasOne(key string, nested Deriver, opts ...RelationOption) Unit {
	cfg := newRelationConfig(key, opts)

	return func(src Record, _ View, build Build) (Fields, error) {
		raw, err := cfg.raw.Resolve(src)
		if err != nil {
			return nil, err
		}
		if !truthy(raw) {
			return Fields{cfg.target: nil}, nil
		}
		obj, ok := asRecord(raw)
		if !ok {
			return Fields{cfg.target: nil}, nil
		}
		view, err := build(obj, unitsOf(nested)...)
		if err != nil {
			return nil, err
		}
		return Fields{cfg.target: view}, nil
	}
}

// HasMany embeds an ordered sequence of nested views derived through nested.
//
// Absent or non-array raw data yields an empty, non-nil slice. Elements
// that are not objects are skipped.
func HasMany(key string, nested Deriver, opts ...RelationOption) Unit {
	cfg := newRelationConfig(key, opts)

	return func(src Record, _ View, build Build) (Fields, error) {
		raw, err := cfg.raw.Resolve(src)
		if err != nil {
			return nil, err
		}
		items, ok := asArray(raw)
		if !ok {
			return Fields{cfg.target: []View{}}, nil
		}
		units := unitsOf(nested)
		views := make([]View, 0, len(items))
		for _, item := range items {
			obj, isObj := asRecord(item)
			if !isObj {
				continue
			}
			view, err := build(obj, units...)
			if err != nil {
				return nil, err
			}
			views = append(views, view)
		}
		return Fields{cfg.target: views}, nil
	}
}
