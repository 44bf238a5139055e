// Package memory provides in-memory implementations of driven storage
// ports. Conversations live for the duration of the process only;
// nothing is persisted across restarts.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
	"github.com/custodia-labs/finqa-cli/internal/core/ports/driven"
)

// Ensure MessageStore implements the interface.
var _ driven.MessageStore = (*MessageStore)(nil)

// MessageStore is an in-memory, append-only implementation of
// driven.MessageStore. Messages keep strict insertion order.
type MessageStore struct {
	mu       sync.RWMutex
	messages []domain.Message
}

// NewMessageStore creates a new in-memory message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// Append adds a message to the end of the conversation.
func (s *MessageStore) Append(_ context.Context, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// List returns a copy of all messages in insertion order.
func (s *MessageStore) List(_ context.Context) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

// Len returns the number of stored messages.
func (s *MessageStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages), nil
}
