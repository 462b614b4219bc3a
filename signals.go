package facet

import "github.com/zoobzio/capitan"

// Projection lifecycle signals.
var (
	// ProjectionStarted is emitted when a Projection begins watching.
	ProjectionStarted = capitan.NewSignal(
		"facet.projection.started",
		"Projection watching started",
	)

	// ProjectionStopped is emitted when a Projection stops watching.
	ProjectionStopped = capitan.NewSignal(
		"facet.projection.stopped",
		"Projection watching stopped",
	)

	// ProjectionStateChanged is emitted when a Projection transitions between states.
	ProjectionStateChanged = capitan.NewSignal(
		"facet.projection.state.changed",
		"Projection state transition",
	)
)

// Derivation signals.
var (
	// ProjectionChangeReceived is emitted when raw data is received from the watcher.
	ProjectionChangeReceived = capitan.NewSignal(
		"facet.projection.change.received",
		"Raw change received from watcher",
	)

	// ProjectionDecodeFailed is emitted when raw data cannot be decoded into a record.
	ProjectionDecodeFailed = capitan.NewSignal(
		"facet.projection.decode.failed",
		"Record decode failed",
	)

	// ProjectionDeriveFailed is emitted when a mapping unit fails.
	ProjectionDeriveFailed = capitan.NewSignal(
		"facet.projection.derive.failed",
		"View derivation failed",
	)

	// ProjectionApplyFailed is emitted when the change callback rejects a view.
	ProjectionApplyFailed = capitan.NewSignal(
		"facet.projection.apply.failed",
		"Change callback failed",
	)

	// ProjectionDeriveSucceeded is emitted when a new view replaces the current one.
	ProjectionDeriveSucceeded = capitan.NewSignal(
		"facet.projection.derive.succeeded",
		"View derived successfully",
	)
)

// WatchToggled is emitted by Toggle.Set with the watcher type, watcher id
// and new state. Hook it to persist watch changes.
var WatchToggled = capitan.NewSignal(
	"facet.watch.toggled",
	"Watch state toggled",
)
