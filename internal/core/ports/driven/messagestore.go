package driven

import (
	"context"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
)

// MessageStore is the ordered, append-only record of committed
// conversation messages.
//
// Messages are immutable once appended and List must preserve
// insertion order - it is replayed verbatim as chat history.
type MessageStore interface {
	// Append adds a message to the end of the conversation.
	Append(ctx context.Context, msg domain.Message) error

	// List returns all messages in insertion order. The returned
	// slice is a copy; mutating it does not affect the store.
	List(ctx context.Context) ([]domain.Message, error)

	// Len returns the number of stored messages.
	Len(ctx context.Context) (int, error)
}
