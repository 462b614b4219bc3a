package facet

// Watch-state field names on a derived view.
const (
	FieldIsWatched   = "isWatched"
	FieldWatcherType = "watcherType"
	FieldWatcherID   = "watcherId"
)

// WatchState is the typed form of the watchable capability.
type WatchState struct {
	IsWatched   bool
	WatcherType string
	WatcherID   string
}

type watchConfig struct {
	watched     Selector[bool]
	watcherType Selector[string]
	watcherID   Selector[string]
}

// WatchOption configures the Watchable mapper.
type WatchOption func(*watchConfig)

// WatchedBy overrides isWatched regardless of the source or earlier units.
func WatchedBy(sel Selector[bool]) WatchOption {
	return func(c *watchConfig) {
		c.watched = sel
	}
}

// WatcherType sets the kind of entity being watched, e.g. "post".
func WatcherType(sel Selector[string]) WatchOption {
	return func(c *watchConfig) {
		c.watcherType = sel
	}
}

// WatcherID sets the identifier of the entity being watched.
func WatcherID(sel Selector[string]) WatchOption {
	return func(c *watchConfig) {
		c.watcherID = sel
	}
}

// Watchable maps watch state onto the view.
//
// isWatched resolves as: WatchedBy override, a boolean already merged by an
// earlier unit in the same derivation, the source isWatched field, then
// false. Seeding from the accumulator is the one place pipeline state
// flows between units.
func Watchable(opts ...WatchOption) Unit {
	cfg := &watchConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(src Record, acc View, _ Build) (Fields, error) {
		watched, err := resolveWatched(src, acc, cfg.watched)
		if err != nil {
			return nil, err
		}
		watcherType, err := cfg.watcherType.Resolve(src)
		if err != nil {
			return nil, err
		}
		watcherID, err := cfg.watcherID.Resolve(src)
		if err != nil {
			return nil, err
		}
		return Fields{
			FieldIsWatched:   watched,
			FieldWatcherType: watcherType,
			FieldWatcherID:   watcherID,
		}, nil
	}
}

func resolveWatched(src Record, acc View, override Selector[bool]) (bool, error) {
	if override.IsSet() {
		return override.Resolve(src)
	}
	if b, ok := acc.Bool(FieldIsWatched); ok {
		return b, nil
	}
	if raw, ok := src.Get(FieldIsWatched); ok {
		if b, isBool := raw.(bool); isBool {
			return b, nil
		}
	}
	return false, nil
}

// IsWatchable reports whether v carries the watchable capability.
func IsWatchable(v View) bool {
	return v.Has(FieldIsWatched, FieldWatcherType, FieldWatcherID)
}

// WatchOf returns the typed watch state of a watchable view.
func WatchOf(v View) (WatchState, bool) {
	if !IsWatchable(v) {
		return WatchState{}, false
	}
	watched, _ := v.Bool(FieldIsWatched)
	watcherType, _ := v.String(FieldWatcherType)
	watcherID, _ := v.String(FieldWatcherID)
	return WatchState{
		IsWatched:   watched,
		WatcherType: watcherType,
		WatcherID:   watcherID,
	}, true
}
