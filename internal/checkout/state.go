package checkout

// State is the explicit checkout state machine. The terminal
// Cancelled/Failed states permit re-entry so the user can retry.
type State string

const (
	StateIdle          State = "IDLE"
	StateSdkLoading    State = "SDK_LOADING"
	StateSdkReady      State = "SDK_READY"
	StateSessionActive State = "SESSION_ACTIVE"
	StateSubmitting    State = "SUBMITTING"
	StateCompleted     State = "COMPLETED"
	StateCancelled     State = "CANCELLED"
	StateFailed        State = "FAILED"
)

func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}

var transitions = map[State][]State{
	StateIdle:          {StateSdkLoading},
	StateSdkLoading:    {StateSdkReady, StateIdle},
	StateSdkReady:      {StateSessionActive, StateIdle},
	StateSessionActive: {StateSubmitting, StateIdle},
	// Submitting returns to the active session when approval is handed
	// off to an external redirect and finishes outside the controller.
	StateSubmitting: {StateCompleted, StateCancelled, StateFailed, StateSessionActive, StateIdle},
	StateCompleted:     {StateIdle},
	// Cancellation and failure return to the active session so a
	// retry does not reload the SDK.
	StateCancelled: {StateSessionActive, StateIdle},
	StateFailed:    {StateSessionActive, StateIdle},
}

func CanTransitionTo(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
