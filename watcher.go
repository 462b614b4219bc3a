package facet

import "context"

// Watcher observes an upstream source of records and emits raw payloads.
//
// Watch must emit the current payload first so a Projection can derive its
// initial view, then one payload per change. The channel is closed when
// ctx ends or the source fails permanently.
type Watcher interface {
	Watch(ctx context.Context) (<-chan []byte, error)
}
