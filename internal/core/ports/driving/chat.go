package driving

import (
	"context"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
)

// ChatService drives one conversation against the Q&A backend.
//
// A conversation accepts at most one exchange at a time: while an
// exchange is in flight, further submissions are rejected with
// domain.ErrBusy and leave the conversation untouched.
type ChatService interface {
	// Ask submits a question and blocks until the answer is
	// committed or the exchange fails. onDelta, when non-nil, is
	// called for each increment of answer text in arrival order,
	// from the goroutine driving the stream.
	//
	// Empty or whitespace-only questions fail with
	// domain.ErrEmptyQuestion before anything is recorded.
	// On transport failure no assistant message is recorded and the
	// submitted user message stays in the history.
	Ask(ctx context.Context, question string, onDelta func(delta string)) (*domain.Message, error)

	// History returns all committed messages in conversation order.
	History(ctx context.Context) ([]domain.Message, error)

	// Phase reports the current exchange phase.
	Phase() domain.ExchangePhase

	// Loading reports whether an exchange is in flight.
	Loading() bool

	// LastError returns the human-readable cause of the last failed
	// exchange, or "" if the last exchange succeeded.
	LastError() string

	// Close aborts any in-flight exchange. The conversation must
	// not be used afterwards.
	Close() error
}
