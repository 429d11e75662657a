package domain

// CheckStatus is the phase of an analysis run.
type CheckStatus int

const (
	// CheckIdle means no analysis has run since the session was created or cleared.
	CheckIdle CheckStatus = iota

	// CheckAnalyzing means the detector is working.
	CheckAnalyzing

	// CheckCompleted means the last run produced an issue list (possibly empty).
	CheckCompleted

	// CheckFailed means the last run failed; see CheckState.Message.
	CheckFailed
)

// String returns the status name.
func (s CheckStatus) String() string {
	switch s {
	case CheckIdle:
		return "idle"
	case CheckAnalyzing:
		return "analyzing"
	case CheckCompleted:
		return "completed"
	case CheckFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CheckState is the status of the current session plus a user-facing failure message.
type CheckState struct {
	Status  CheckStatus
	Message string
}

// IdleState returns the initial state.
func IdleState() CheckState { return CheckState{Status: CheckIdle} }

// AnalyzingState returns the in-progress state.
func AnalyzingState() CheckState { return CheckState{Status: CheckAnalyzing} }

// CompletedState returns the success state.
func CompletedState() CheckState { return CheckState{Status: CheckCompleted} }

// FailedState returns a failure state carrying message.
func FailedState(message string) CheckState {
	return CheckState{Status: CheckFailed, Message: message}
}

// IsFailed reports whether the last run failed.
func (s CheckState) IsFailed() bool {
	return s.Status == CheckFailed
}
