package facet

import "context"

// ChannelWatcher adapts a byte channel into a Watcher. It suits tests and
// hosts that already receive record payloads from elsewhere, such as a
// message consumer.
type ChannelWatcher struct {
	src    <-chan []byte
	direct bool
}

// NewChannelWatcher forwards payloads from src through a goroutine that
// stops when the Watch context ends.
func NewChannelWatcher(src <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{src: src}
}

// NewSyncChannelWatcher hands src to the Projection as-is.
// Use with Projection.SyncMode() for deterministic testing.
func NewSyncChannelWatcher(src <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{src: src, direct: true}
}

// Watch returns the channel of payloads.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if w.direct {
		return w.src, nil
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			var payload []byte
			select {
			case <-ctx.Done():
				return
			case v, ok := <-w.src:
				if !ok {
					return
				}
				payload = v
			}
			select {
			case out <- payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
