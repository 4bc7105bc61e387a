// internal/adapter/state.go
package adapter

// State is the health and progress of the engine session.
//
//	┌───────────┐  Load   ┌─────────┐ likely to keep up / ready ┌─────────────┐
//	│ Undefined │ ──────▶ │ Loading │ ────────────────────────▶ │ ReadyToPlay │
//	└───────────┘         └─────────┘ ◀──────────────────────── └─────────────┘
//	      ▲                            buffer emptied              │      ▲
//	      │ Stop (from any)                                   Seek │      │ reconcile
//	      │                                                        ▼      │
//	      │                                                   ┌─────────────┐
//	      │                                                   │   Seeking   │
//	      │                                                   └─────────────┘
//
//	Failed:   any non-Seeking state, when the item reports failure.
//	Finished: any state, when the current item plays to its end.
//
// While Seeking, engine buffer and status signals are ignored; only
// reconciliation moves the adapter out of Seeking.
type State int

const (
	StateUndefined State = iota
	StateLoading
	StateSeeking
	StateReadyToPlay
	StateFinished
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUndefined:
		return "Undefined"
	case StateLoading:
		return "Loading"
	case StateSeeking:
		return "Seeking"
	case StateReadyToPlay:
		return "ReadyToPlay"
	case StateFinished:
		return "Finished"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Intent is what the caller wants playback to do, independent of State.
type Intent int

const (
	IntentPaused Intent = iota
	IntentRunning
	// IntentSuspended halts playback like IntentPaused but marks the halt as
	// not requested by the user (errors, policy).
	IntentSuspended
)

// String returns the intent name.
func (i Intent) String() string {
	switch i {
	case IntentPaused:
		return "Paused"
	case IntentRunning:
		return "Running"
	case IntentSuspended:
		return "Suspended"
	default:
		return "Unknown"
	}
}

// IsHalted returns true if playback is physically stopped by the intent.
func (i Intent) IsHalted() bool {
	return i == IntentPaused || i == IntentSuspended
}
