package facet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/zoobzio/capitan"
)

// ErrNotWatchable is returned when a Toggle is built from a view lacking
// the watchable capability.
var ErrNotWatchable = errors.New("facet: view is not watchable")

// validate is the shared validator instance.
var validate = validator.New()

// WatchChange is the notification emitted when a Toggle changes state.
type WatchChange struct {
	WatcherType string `validate:"required"`
	WatcherID   string `validate:"required"`
	IsWatched   bool
}

// Notifier receives watch changes, typically to persist them. It runs
// synchronously inside Set.
type Notifier func(ctx context.Context, change WatchChange) error

// Toggle is view-layer watch state seeded from a watchable view. The
// view itself is never modified; the toggle keeps its own local copy.
type Toggle struct {
	mu          sync.Mutex
	watched     bool
	watcherType string
	watcherID   string
	notify      Notifier
}

// NewToggle creates a Toggle initialized from v's watch state.
func NewToggle(v View) (*Toggle, error) {
	state, ok := WatchOf(v)
	if !ok {
		return nil, ErrNotWatchable
	}
	return &Toggle{
		watched:     state.IsWatched,
		watcherType: state.WatcherType,
		watcherID:   state.WatcherID,
	}, nil
}

// OnChange sets the notifier invoked after each state change.
func (t *Toggle) OnChange(fn Notifier) *Toggle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notify = fn
	return t
}

// Watched returns the local watch state.
func (t *Toggle) Watched() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.watched
}

// Set updates the local state and emits the change as a WatchToggled
// signal and to the notifier. A notifier error is returned but the local
// state keeps the new value.
func (t *Toggle) Set(ctx context.Context, watched bool) error {
	t.mu.Lock()
	change := WatchChange{
		WatcherType: t.watcherType,
		WatcherID:   t.watcherID,
		IsWatched:   watched,
	}
	if err := validate.Struct(change); err != nil {
		t.mu.Unlock()
		return fmt.Errorf("invalid watch change: %w", err)
	}
	t.watched = watched
	notify := t.notify
	t.mu.Unlock()

	capitan.Emit(ctx, WatchToggled,
		KeyWatcherType.Field(change.WatcherType),
		KeyWatcherID.Field(change.WatcherID),
		KeyIsWatched.Field(change.IsWatched),
	)

	if notify != nil {
		return notify(ctx, change)
	}
	return nil
}

// Flip inverts the local state. See Set.
func (t *Toggle) Flip(ctx context.Context) error {
	return t.Set(ctx, !t.Watched())
}
