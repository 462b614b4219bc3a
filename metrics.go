package facet

import "time"

// Failure stages reported to MetricsProvider.OnDeriveFailure.
const (
	StageDecode = "decode"
	StageDerive = "derive"
	StageApply  = "apply"
)

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on derivation and projection events.
type MetricsProvider interface {
	// OnStateChange is called when a projection transitions between states.
	OnStateChange(from, to State)

	// OnDeriveSuccess is called when a record is successfully derived.
	OnDeriveSuccess(duration time.Duration)

	// OnDeriveFailure is called when derivation fails at any stage.
	// Stage is one of StageDecode, StageDerive or StageApply.
	OnDeriveFailure(stage string, duration time.Duration)

	// OnChangeReceived is called when raw data is received from a watcher.
	OnChangeReceived()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)                  {}
func (NoOpMetricsProvider) OnDeriveSuccess(_ time.Duration)           {}
func (NoOpMetricsProvider) OnDeriveFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnChangeReceived()                         {}
