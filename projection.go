package facet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce duration for change processing.
const DefaultDebounce = 100 * time.Millisecond

// ChangeFunc is invoked after a record derives successfully, before the
// new view becomes current. prev is the zero View on the first derivation.
// Returning an error rejects the new view.
type ChangeFunc func(ctx context.Context, prev, curr View) error

// Projection keeps a derived View in step with a watched source.
//
// Every payload from the Watcher is decoded into a Record and derived
// through the Pipeline. A successful derivation replaces the current view
// wholesale; views are never patched in place. When decoding or deriving
// fails the previous view stays current and the Projection reports
// StateDegraded, or StateEmpty if no view was ever derived.
type Projection struct {
	watcher        Watcher
	pipeline       *Pipeline
	onChange       ChangeFunc
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	codec          Codec
	metrics        MetricsProvider
	onStop         func(State)

	state     atomic.Int32
	current   atomic.Pointer[View]
	lastError atomic.Pointer[error]
	failures  *failureRing

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive changes
	changes <-chan []byte
}

// NewProjection creates a Projection deriving payloads from watcher
// through pipeline.
//
// Start blocks until the watcher emits its first payload. Watchers emit
// nothing for a missing Redis key or an empty file, so set StartupTimeout
// when the source may not exist yet.
//
// Example:
//
//	posts := facet.NewPipeline("post.detail",
//	    facet.Pick("id", "title"),
//	    facet.Authored(),
//	    facet.Timestamped(),
//	)
//
//	projection := facet.NewProjection(file.New("post.json"), posts).
//	    Debounce(200 * time.Millisecond)
//
//	if err := projection.Start(ctx); err != nil {
//	    log.Printf("initial derivation failed: %v", err)
//	}
//	view, ok := projection.Current()
func NewProjection(watcher Watcher, pipeline *Pipeline) *Projection {
	p := &Projection{
		watcher:  watcher,
		pipeline: pipeline,
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
		codec:    JSONCodec{},
	}
	p.state.Store(int32(StateLoading))
	return p
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// OnChange sets a callback run before each new view becomes current.
// Must be called before Start().
func (p *Projection) OnChange(fn ChangeFunc) *Projection {
	p.onChange = fn
	return p
}

// Debounce sets the debounce duration for change processing.
// Changes arriving within this duration are coalesced into a single update.
// Default: 100ms. Must be called before Start().
func (p *Projection) Debounce(d time.Duration) *Projection {
	p.debounce = d
	return p
}

// SyncMode enables synchronous processing for testing.
// In sync mode, changes are processed immediately without debouncing
// or async goroutines, making tests deterministic. Must be called before Start().
func (p *Projection) SyncMode() *Projection {
	p.syncMode = true
	return p
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic debounce testing.
// Must be called before Start().
func (p *Projection) Clock(clock clockz.Clock) *Projection {
	p.clock = clock
	return p
}

// Codec sets the codec for decoding payloads into records.
// Default: JSONCodec. Must be called before Start().
func (p *Projection) Codec(codec Codec) *Projection {
	p.codec = codec
	return p
}

// StartupTimeout bounds how long Start waits for the first payload.
// Default: no timeout. Must be called before Start().
func (p *Projection) StartupTimeout(d time.Duration) *Projection {
	p.startupTimeout = d
	return p
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Start().
func (p *Projection) Metrics(provider MetricsProvider) *Projection {
	p.metrics = provider
	return p
}

// OnStop sets a callback that is invoked when the projection stops watching.
// The callback receives the final state. Must be called before Start().
func (p *Projection) OnStop(fn func(State)) *Projection {
	p.onStop = fn
	return p
}

// ErrorHistorySize sets how many recent failures ErrorHistory retains.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Start().
func (p *Projection) ErrorHistorySize(n int) *Projection {
	p.failures = newFailureRing(n)
	return p
}

// State returns the current state of the Projection.
func (p *Projection) State() State {
	return State(p.state.Load())
}

// Current returns the current view and true, or the zero View and false
// if no record has derived successfully yet.
func (p *Projection) Current() (View, bool) {
	ptr := p.current.Load()
	if ptr == nil {
		return View{}, false
	}
	return *ptr, true
}

// LastError returns the last error encountered, or nil after a success.
func (p *Projection) LastError() error {
	ptr := p.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns failures since the last success, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (p *Projection) ErrorHistory() []Failure {
	return p.failures.snapshot()
}

// Start begins watching. It blocks until the first payload is processed
// (success or failure), then continues watching asynchronously.
//
// If the initial derivation fails, Start returns the error but keeps
// watching in the background.
//
// In sync mode, Start only processes the initial payload. Use Process() to
// manually trigger processing of subsequent payloads.
//
// Start can only be called once. Subsequent calls return an error.
func (p *Projection) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return errors.New("projection already started")
	}
	p.started = true
	p.mu.Unlock()

	capitan.Emit(ctx, ProjectionStarted,
		KeyPipeline.Field(p.pipeline.Name()),
		KeyDebounce.Field(p.debounce),
	)

	changes, err := p.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	startupCtx := ctx
	if p.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = p.clock.WithTimeout(ctx, p.startupTimeout)
		defer cancel()
	}

	var initialErr error
	select {
	case <-startupCtx.Done():
		if p.startupTimeout > 0 && errors.Is(startupCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("startup timeout: watcher did not emit initial payload within %v", p.startupTimeout)
		}
		return startupCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return errors.New("watcher closed before emitting initial payload")
		}
		p.received(ctx)
		initialErr = p.process(ctx, raw)
	}

	if p.syncMode {
		p.changes = changes
		return initialErr
	}

	go p.watch(ctx, changes)

	return initialErr
}

// Process reads and processes the next payload from the watcher.
// This is only available in sync mode and is used for deterministic testing.
// Returns false if no payload is available or the channel is closed.
func (p *Projection) Process(ctx context.Context) bool {
	if !p.syncMode {
		return false
	}

	select {
	case raw, ok := <-p.changes:
		if !ok {
			return false
		}
		p.received(ctx)
		_ = p.process(ctx, raw) //nolint:errcheck // Errors stored via fail
		return true
	default:
		return false
	}
}

func (p *Projection) received(ctx context.Context) {
	capitan.Emit(ctx, ProjectionChangeReceived)
	if p.metrics != nil {
		p.metrics.OnChangeReceived()
	}
}

// process decodes, derives and publishes a single payload.
func (p *Projection) process(ctx context.Context, raw []byte) error {
	start := p.clock.Now()
	oldState := p.State()

	src, err := DecodeRecord(p.codec, raw)
	if err != nil {
		p.fail(ctx, oldState, StageDecode, ProjectionDecodeFailed, err, start)
		return fmt.Errorf("decode failed: %w", err)
	}

	view, err := DeriveSeeded(src, p.pipeline.seed, p.pipeline.units...)
	if err != nil {
		p.fail(ctx, oldState, StageDerive, ProjectionDeriveFailed, err, start)
		return fmt.Errorf("derive failed: %w", err)
	}

	if p.onChange != nil {
		prev, _ := p.Current()
		if err := p.onChange(ctx, prev, view); err != nil {
			p.fail(ctx, oldState, StageApply, ProjectionApplyFailed, err, start)
			return fmt.Errorf("change callback failed: %w", err)
		}
	}

	p.current.Store(&view)
	p.lastError.Store(nil)
	p.failures.reset()
	p.transitionState(ctx, oldState, StateHealthy)
	capitan.Emit(ctx, ProjectionDeriveSucceeded,
		KeyPipeline.Field(p.pipeline.Name()),
	)
	if p.metrics != nil {
		p.metrics.OnDeriveSuccess(p.clock.Since(start))
	}

	return nil
}

// fail records err and moves to the appropriate failure state.
func (p *Projection) fail(ctx context.Context, oldState State, stage string, signal capitan.Signal, err error, start time.Time) {
	e := err
	p.lastError.Store(&e)
	p.failures.push(Failure{Stage: stage, Err: err, At: p.clock.Now()})
	p.transitionState(ctx, oldState, p.failureState())
	capitan.Emit(ctx, signal,
		KeyPipeline.Field(p.pipeline.Name()),
		KeyError.Field(err.Error()),
	)
	if p.metrics != nil {
		p.metrics.OnDeriveFailure(stage, p.clock.Since(start))
	}
}

// failureState returns Degraded when a view exists, Empty otherwise.
func (p *Projection) failureState() State {
	if p.current.Load() == nil {
		return StateEmpty
	}
	return StateDegraded
}

// transitionState updates the state and emits a state change event if changed.
func (p *Projection) transitionState(ctx context.Context, oldState, newState State) {
	if oldState == newState {
		return
	}
	p.state.Store(int32(newState))
	capitan.Emit(ctx, ProjectionStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
	if p.metrics != nil {
		p.metrics.OnStateChange(oldState, newState)
	}
}

// watch processes changes from the watcher channel with debouncing.
func (p *Projection) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		finalState := p.State()
		capitan.Emit(ctx, ProjectionStopped,
			KeyState.Field(finalState.String()),
		)
		if p.onStop != nil {
			p.onStop(finalState)
		}
	}()

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if hasPending {
					_ = p.process(ctx, pending) //nolint:errcheck // Errors stored via fail
				}
				return
			}

			p.received(ctx)
			pending = raw
			hasPending = true

			if timer == nil {
				timer = p.clock.NewTimer(p.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(p.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = p.process(ctx, pending) //nolint:errcheck // Errors stored via fail
				hasPending = false
			}
		}
	}
}
