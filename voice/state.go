package voice

// State represents whether the speaker is talking during a segment.
type State int

const (
	// StateSilent indicates background noise only.
	StateSilent State = iota
	// StateTalking indicates pitch samples are being produced.
	StateTalking
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateSilent:
		return "silent"
	case StateTalking:
		return "talking"
	default:
		return "unknown"
	}
}

// Toggle returns the opposite state.
func (s State) Toggle() State {
	if s == StateTalking {
		return StateSilent
	}
	return StateTalking
}

// verb is used in trace records.
func (s State) verb() string {
	if s == StateTalking {
		return "talked"
	}
	return "kept silent"
}
