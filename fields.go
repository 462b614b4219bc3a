package facet

import "github.com/zoobzio/capitan"

// Field keys for Projection events.
var (
	// KeyState is the current state of the Projection.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyPipeline is the name of the pipeline deriving the view.
	KeyPipeline = capitan.NewStringKey("pipeline")
)

// Field keys for watch toggle events.
var (
	// KeyWatcherType is the kind of entity being watched.
	KeyWatcherType = capitan.NewStringKey("watcher_type")

	// KeyWatcherID is the identifier of the entity being watched.
	KeyWatcherID = capitan.NewStringKey("watcher_id")

	// KeyIsWatched is the new watch state.
	KeyIsWatched = capitan.NewBoolKey("is_watched")
)
