package facet

// State represents the current state of a Projection.
type State int32

const (
	// StateLoading indicates the Projection is initializing and has not yet
	// derived a view.
	StateLoading State = iota

	// StateHealthy indicates the most recent record derived successfully.
	StateHealthy

	// StateDegraded indicates the last record failed to decode or derive.
	// The previously derived view remains current.
	StateDegraded

	// StateEmpty indicates no record has ever derived successfully.
	// The Projection keeps watching for a usable record.
	StateEmpty
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
