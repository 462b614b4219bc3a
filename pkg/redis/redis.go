// Package redis provides a facet.Watcher for a source record cached under a
// Redis key, driven by keyspace notifications.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultDB is the database whose keyspace channel is subscribed to.
const DefaultDB = 0

// writeOps are the keyspace events that replace a string value.
var writeOps = map[string]bool{
	"set":      true,
	"setex":    true,
	"psetex":   true,
	"setnx":    true,
	"mset":     true,
	"setrange": true,
}

// Watcher watches one Redis key holding an encoded record.
// Keyspace notifications must be enabled on the server:
//
//	CONFIG SET notify-keyspace-events KEA
type Watcher struct {
	client *redis.Client
	key    string
	db     int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDB selects the database number used in the keyspace channel name.
func WithDB(db int) Option {
	return func(w *Watcher) {
		w.db = db
	}
}

// New creates a Watcher for key.
func New(client *redis.Client, key string, opts ...Option) *Watcher {
	w := &Watcher{
		client: client,
		key:    key,
		db:     DefaultDB,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Channel returns the keyspace notification channel for the watched key.
func (w *Watcher) Channel() string {
	return fmt.Sprintf("__keyspace@%d__:%s", w.db, w.key)
}

// Watch subscribes to the key's keyspace channel, emits the current value
// if the key exists, then emits the value again after every write.
//
// A missing key produces no initial payload, so a Projection's Start waits
// for the first write. Bound that wait with Projection.StartupTimeout.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	pubsub := w.client.Subscribe(ctx, w.Channel())
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to keyspace notifications: %w", err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer pubsub.Close()

		send := func() bool {
			val, err := w.client.Get(ctx, w.key).Bytes()
			if err != nil {
				// Missing keys and transient errors wait for the next write.
				return ctx.Err() == nil
			}
			select {
			case out <- val:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send() {
			return
		}

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				if !writeOps[msg.Payload] {
					continue
				}
				if !send() {
					return
				}
			}
		}
	}()

	return out, nil
}
