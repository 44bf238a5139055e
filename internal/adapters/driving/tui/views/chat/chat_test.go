package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/finqa-cli/internal/core/domain"
)

// mockChat implements driving.ChatService for view tests.
type mockChat struct {
	askFunc func(ctx context.Context, question string, onDelta func(string)) (*domain.Message, error)
	asked   []string
}

func (m *mockChat) Ask(ctx context.Context, question string, onDelta func(string)) (*domain.Message, error) {
	m.asked = append(m.asked, question)
	if m.askFunc != nil {
		return m.askFunc(ctx, question, onDelta)
	}
	return &domain.Message{Role: domain.RoleAssistant, Content: "answer"}, nil
}

func (m *mockChat) History(ctx context.Context) ([]domain.Message, error) { return nil, nil }
func (m *mockChat) Phase() domain.ExchangePhase                          { return domain.PhaseIdle }
func (m *mockChat) Loading() bool                                        { return false }
func (m *mockChat) LastError() string                                    { return "" }
func (m *mockChat) Close() error                                         { return nil }

func sizedView(t *testing.T, chat *mockChat) *View {
	t.Helper()

	v := NewView(nil, nil, chat)
	v, _ = v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return v
}

func TestViewNotReadyBeforeSize(t *testing.T) {
	v := NewView(nil, nil, &mockChat{})

	assert.Equal(t, "Loading...", v.View())
}

func TestViewReadyAfterWindowSize(t *testing.T) {
	v := sizedView(t, &mockChat{})

	assert.NotEqual(t, "Loading...", v.View())
}

func TestSubmitAppendsUserMessage(t *testing.T) {
	v := sizedView(t, &mockChat{})

	v.input.SetValue("What was Q3 revenue?")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	require.Len(t, v.History(), 1)
	assert.Equal(t, domain.RoleUser, v.History()[0].Role)
	assert.Equal(t, "What was Q3 revenue?", v.History()[0].Content)
	assert.Equal(t, status.StateStreaming, v.statusbar.State())
}

func TestSubmitEmptyInputIsNoOp(t *testing.T) {
	v := sizedView(t, &mockChat{})

	v.input.SetValue("   ")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, v.Loading())
	assert.Empty(t, v.History())
}

func TestSubmitWhileLoadingIsNoOp(t *testing.T) {
	v := sizedView(t, &mockChat{})

	v.input.SetValue("first")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, v.Loading())

	v.input.SetValue("second")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	require.Len(t, v.History(), 1)
	assert.Equal(t, "first", v.History()[0].Content)
}

func TestAnswerDeltaAccumulates(t *testing.T) {
	v := sizedView(t, &mockChat{})

	v.input.SetValue("question")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	v, _ = v.Update(messages.AnswerDelta{Text: "The answer "})
	v, _ = v.Update(messages.AnswerDelta{Text: "is 42."})

	assert.Equal(t, "The answer is 42.", v.streaming)
	assert.Contains(t, v.renderTranscript(), "The answer is 42.")
}

func TestExchangeFinishedCommitsAnswer(t *testing.T) {
	v := sizedView(t, &mockChat{})

	v.input.SetValue("question")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v, _ = v.Update(messages.AnswerDelta{Text: "partial"})

	answer := &domain.Message{
		Role:           domain.RoleAssistant,
		Content:        "The answer is 42.",
		Sources:        []domain.Source{{Page: 3, Score: 0.91}},
		ProcessingTime: 1.5,
	}
	v, _ = v.Update(messages.ExchangeFinished{Message: answer})

	assert.False(t, v.Loading())
	assert.Empty(t, v.streaming)
	require.Len(t, v.History(), 2)
	assert.Equal(t, domain.RoleAssistant, v.History()[1].Role)
	assert.Equal(t, "The answer is 42.", v.History()[1].Content)
	assert.Equal(t, status.StateReady, v.statusbar.State())

	rendered := v.renderTranscript()
	assert.Contains(t, rendered, "page 3")
	assert.Contains(t, rendered, "answered in 1.50s")
}

func TestExchangeFinishedErrorDiscardsPendingAnswer(t *testing.T) {
	v := sizedView(t, &mockChat{})

	v.input.SetValue("question")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v, _ = v.Update(messages.AnswerDelta{Text: "partial answer"})

	failure := errors.New("connection refused")
	v, _ = v.Update(messages.ExchangeFinished{Err: failure})

	assert.False(t, v.Loading())
	assert.Empty(t, v.streaming)
	require.Len(t, v.History(), 1)
	assert.Equal(t, domain.RoleUser, v.History()[0].Role)
	assert.Equal(t, failure, v.Err())
	assert.Equal(t, status.StateError, v.statusbar.State())
	assert.NotContains(t, v.renderTranscript(), "partial answer")
}

func TestRecoveryAfterError(t *testing.T) {
	v := sizedView(t, &mockChat{})

	v.input.SetValue("question")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v, _ = v.Update(messages.ExchangeFinished{Err: errors.New("boom")})
	require.Error(t, v.Err())

	v.input.SetValue("retry")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.NoError(t, v.Err())
	assert.True(t, v.Loading())
	require.Len(t, v.History(), 2)
	assert.Equal(t, "retry", v.History()[1].Content)
}

func TestQuitKeyReturnsQuit(t *testing.T) {
	v := sizedView(t, &mockChat{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWaitForDeltaRelaysAndStops(t *testing.T) {
	v := sizedView(t, &mockChat{})
	v.deltas = make(chan string, 2)
	v.deltas <- "chunk"
	close(v.deltas)

	cmd := v.waitForDelta()
	require.NotNil(t, cmd)
	assert.Equal(t, messages.AnswerDelta{Text: "chunk"}, cmd())

	cmd = v.waitForDelta()
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
}
