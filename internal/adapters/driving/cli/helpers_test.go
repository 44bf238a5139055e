package cli

import (
	"context"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
)

// mockChatService implements driving.ChatService for command tests.
type mockChatService struct {
	answer  domain.Message
	askErr  error
	asks    int
	history []domain.Message
}

func (m *mockChatService) Ask(_ context.Context, question string, onDelta func(string)) (*domain.Message, error) {
	m.asks++
	if m.askErr != nil {
		return nil, m.askErr
	}
	if onDelta != nil {
		onDelta(m.answer.Content)
	}
	m.history = append(m.history,
		domain.Message{Role: domain.RoleUser, Content: question},
		m.answer,
	)
	answer := m.answer
	return &answer, nil
}

func (m *mockChatService) History(_ context.Context) ([]domain.Message, error) {
	return m.history, nil
}

func (m *mockChatService) Phase() domain.ExchangePhase { return domain.PhaseIdle }
func (m *mockChatService) Loading() bool               { return false }
func (m *mockChatService) LastError() string           { return "" }
func (m *mockChatService) Close() error                { return nil }

// mockDocService implements driving.DocumentService for command tests.
type mockDocService struct {
	receipt   *domain.UploadReceipt
	uploadErr error
	docs      []domain.DocumentInfo
	chunks    []domain.Chunk
}

func (m *mockDocService) Upload(_ context.Context, _ string, progress domain.ProgressFunc) (*domain.UploadReceipt, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	if progress != nil {
		progress(100)
	}
	return m.receipt, nil
}

func (m *mockDocService) Documents(_ context.Context) ([]domain.DocumentInfo, error) {
	return m.docs, nil
}

func (m *mockDocService) Chunks(_ context.Context) ([]domain.Chunk, error) {
	return m.chunks, nil
}

func (m *mockDocService) Watch(_ context.Context, _ string, _ domain.ProgressFunc) error {
	return nil
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices(chat *mockChatService, doc *mockDocService) func() {
	prevChat := chatService
	prevDoc := documentService
	chatService = chat
	documentService = doc
	return func() {
		chatService = prevChat
		documentService = prevDoc
	}
}
