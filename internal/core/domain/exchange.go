package domain

// ExchangePhase tracks the lifecycle of a single question/answer
// exchange as it moves through the conversation state machine.
type ExchangePhase int

// Exchange lifecycle phases.
const (
	// PhaseIdle means no exchange is in flight.
	PhaseIdle ExchangePhase = iota

	// PhaseSending means the question has been submitted and the
	// answer stream has not opened yet.
	PhaseSending

	// PhaseStreaming means answer tokens are arriving.
	PhaseStreaming

	// PhaseFinalising means the stream has ended and the answer is
	// being committed.
	PhaseFinalising

	// PhaseError means the last exchange failed. A new submission
	// clears it.
	PhaseError
)

// String returns the string representation of the phase.
func (p ExchangePhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseStreaming:
		return "streaming"
	case PhaseFinalising:
		return "finalising"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Exchange is the transient state of one in-flight question.
// It is discarded entirely when the exchange fails and folded into
// a new assistant Message when it succeeds. At most one non-terminal
// Exchange exists per conversation.
type Exchange struct {
	// Question is the submitted question text.
	Question string

	// Answer is the answer text accumulated so far.
	Answer string

	// Sources are the parsed sources, present after finalisation.
	Sources []Source

	// ProcessingTime is the parsed answer time in seconds.
	ProcessingTime float64

	// Phase is the current lifecycle phase.
	Phase ExchangePhase
}

// ProgressFunc reports discrete progress as a percentage in [0, 100].
type ProgressFunc func(percent int)
