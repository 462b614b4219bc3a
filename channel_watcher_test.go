package facet

import (
	"context"
	"testing"
	"time"
)

func TestChannelWatcher_ForwardsPayloads(t *testing.T) {
	source := make(chan []byte, 3)
	source <- []byte(`{"id":"1"}`)
	source <- []byte(`{"id":"2"}`)
	source <- []byte(`{"id":"3"}`)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := NewChannelWatcher(source).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	for i, want := range []string{`{"id":"1"}`, `{"id":"2"}`, `{"id":"3"}`} {
		select {
		case v := <-out:
			if string(v) != want {
				t.Errorf("payload %d: expected %s, got %s", i, want, v)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timeout waiting for payload %d", i)
		}
	}
}

func TestChannelWatcher_ClosesOnSourceClose(t *testing.T) {
	source := make(chan []byte, 1)
	source <- []byte(`{}`)
	close(source)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := NewChannelWatcher(source).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	<-out

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for channel close")
	}
}

func TestChannelWatcher_ClosesOnContextCancel(t *testing.T) {
	source := make(chan []byte)

	ctx, cancel := context.WithCancel(context.Background())
	out, err := NewChannelWatcher(source).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for channel close")
	}
}

func TestSyncChannelWatcher_ReturnsSource(t *testing.T) {
	source := make(chan []byte, 1)
	source <- []byte(`{"id":"1"}`)

	out, err := NewSyncChannelWatcher(source).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if string(<-out) != `{"id":"1"}` {
		t.Error("expected payload straight from the source channel")
	}
}
