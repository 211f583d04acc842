package models

// CallState represents the lifecycle state of a call session.
type CallState string

const (
	// StateActive means the call is live and ingesting packets.
	StateActive CallState = "IN_PROGRESS"

	// StateEnded means the call has finished and is awaiting post-processing.
	StateEnded CallState = "COMPLETED"

	// StateAnalyzing means the AI pipeline is currently processing the call.
	StateAnalyzing CallState = "PROCESSING_AI"

	// StateArchived means analysis succeeded and results are stored. Terminal.
	StateArchived CallState = "ARCHIVED"

	// StateFailed means processing hit an unrecoverable error. Terminal.
	StateFailed CallState = "FAILED"
)

// transitions is the closed table of legal state changes.
var transitions = map[CallState][]CallState{
	StateActive:    {StateEnded},
	StateEnded:     {StateAnalyzing},
	StateAnalyzing: {StateArchived, StateFailed},
	StateArchived:  {},
	StateFailed:    {},
}

// IsValid reports whether s is one of the known call states.
func (s CallState) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transitions leave s.
func (s CallState) IsTerminal() bool {
	return s == StateArchived || s == StateFailed
}

// CanTransition reports whether the state machine permits from -> to.
func (s CallState) CanTransition(to CallState) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
