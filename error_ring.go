package facet

import (
	"sync"
	"time"
)

// Failure is one entry of a Projection's error history.
type Failure struct {
	// Stage is where the failure happened: StageDecode, StageDerive or StageApply.
	Stage string

	// Err is the error returned by that stage.
	Err error

	// At is when the failure was recorded, per the projection clock.
	At time.Time
}

// failureRing keeps the most recent failures, oldest first.
// A nil ring is disabled and ignores every call.
type failureRing struct {
	mu    sync.RWMutex
	items []Failure
	next  int
	full  bool
}

// newFailureRing returns a ring holding up to size failures, or nil when
// size is not positive.
func newFailureRing(size int) *failureRing {
	if size <= 0 {
		return nil
	}
	return &failureRing{items: make([]Failure, size)}
}

func (r *failureRing) push(f Failure) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.next] = f
	r.next++
	if r.next == len(r.items) {
		r.next = 0
		r.full = true
	}
}

func (r *failureRing) reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.items)
	r.next = 0
	r.full = false
}

func (r *failureRing) snapshot() []Failure {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full {
		if r.next == 0 {
			return nil
		}
		out := make([]Failure, r.next)
		copy(out, r.items[:r.next])
		return out
	}
	out := make([]Failure, 0, len(r.items))
	out = append(out, r.items[r.next:]...)
	out = append(out, r.items[:r.next]...)
	return out
}
