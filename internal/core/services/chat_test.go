package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finqa-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/finqa-cli/internal/core/domain"
)

// --- Mock implementations ---

// scriptedStream replays chunks one per Read, then ends with EOF or
// the configured failure.
type scriptedStream struct {
	chunks  [][]byte
	failure error
	closed  bool
}

func (s *scriptedStream) Read(p []byte) (int, error) {
	if len(s.chunks) == 0 {
		if s.failure != nil {
			return 0, s.failure
		}
		return 0, io.EOF
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	n := copy(p, chunk)
	return n, nil
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

// mockChatBackend implements driven.ChatBackend for testing.
type mockChatBackend struct {
	stream      *scriptedStream
	openErr     error
	calls       int
	lastHistory []domain.Message
}

func (m *mockChatBackend) AskStream(_ context.Context, _ string, history []domain.Message) (io.ReadCloser, error) {
	m.calls++
	m.lastHistory = history
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.stream, nil
}

func chunks(parts ...string) [][]byte {
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

// --- Tests ---

func TestConversation_AskCommitsAnswer(t *testing.T) {
	ctx := context.Background()
	backend := &mockChatBackend{stream: &scriptedStream{chunks: chunks(
		"The answer is ",
		"42. [END_M",
		`ETA]{"sources":[],"processing_time":1.5}`,
	)}}
	store := memory.NewMessageStore()
	conv := NewConversation(backend, store)

	var deltas []string
	msg, err := conv.Ask(ctx, "What is the answer?", func(d string) {
		deltas = append(deltas, d)
	})
	require.NoError(t, err)

	assert.Equal(t, "The answer is 42.", msg.Content)
	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Empty(t, msg.Sources)
	assert.Equal(t, 1.5, msg.ProcessingTime)
	assert.NotEmpty(t, msg.ID)

	// Incremental deltas reassemble the untrimmed answer.
	var streamed string
	for _, d := range deltas {
		streamed += d
	}
	assert.Equal(t, "The answer is 42. ", streamed)

	msgs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, "What is the answer?", msgs[0].Content)
	assert.Equal(t, msg.ID, msgs[1].ID)

	assert.True(t, backend.stream.closed)
	assert.Equal(t, domain.PhaseIdle, conv.Phase())
	assert.False(t, conv.Loading())
	assert.Empty(t, conv.LastError())
}

func TestConversation_EmptyQuestionRejected(t *testing.T) {
	ctx := context.Background()
	backend := &mockChatBackend{}
	store := memory.NewMessageStore()
	conv := NewConversation(backend, store)

	for _, q := range []string{"", "   ", "\n\t "} {
		_, err := conv.Ask(ctx, q, nil)
		assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
	}

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "no user message for rejected questions")
	assert.Zero(t, backend.calls, "no stream opened for rejected questions")
}

func TestConversation_BusyGuard(t *testing.T) {
	ctx := context.Background()
	backend := &mockChatBackend{stream: &scriptedStream{chunks: chunks("slow answer")}}
	store := memory.NewMessageStore()
	conv := NewConversation(backend, store)

	// Simulate an in-flight exchange.
	conv.mu.Lock()
	conv.loading = true
	conv.mu.Unlock()

	_, err := conv.Ask(ctx, "second question", nil)
	assert.ErrorIs(t, err, domain.ErrBusy)

	n, nErr := store.Len(ctx)
	require.NoError(t, nErr)
	assert.Zero(t, n)
	assert.Zero(t, backend.calls)
}

func TestConversation_NoSentinelWholeStreamIsAnswer(t *testing.T) {
	ctx := context.Background()
	backend := &mockChatBackend{stream: &scriptedStream{chunks: chunks("plain ", "text answer")}}
	conv := NewConversation(backend, memory.NewMessageStore())

	msg, err := conv.Ask(ctx, "q", nil)
	require.NoError(t, err)

	assert.Equal(t, "plain text answer", msg.Content)
	assert.Empty(t, msg.Sources)
	assert.Zero(t, msg.ProcessingTime)
}

func TestConversation_MalformedMetadataStillCommits(t *testing.T) {
	ctx := context.Background()
	backend := &mockChatBackend{stream: &scriptedStream{chunks: chunks(
		"the answer[END_META]{broken",
	)}}
	conv := NewConversation(backend, memory.NewMessageStore())

	msg, err := conv.Ask(ctx, "q", nil)
	require.NoError(t, err)

	assert.Equal(t, "the answer", msg.Content)
	assert.Empty(t, msg.Sources)
	assert.Zero(t, msg.ProcessingTime)
}

func TestConversation_TransportFailureMidStream(t *testing.T) {
	ctx := context.Background()
	backend := &mockChatBackend{stream: &scriptedStream{
		chunks:  chunks("partial answ"),
		failure: errors.New("connection reset"),
	}}
	store := memory.NewMessageStore()
	conv := NewConversation(backend, store)

	_, err := conv.Ask(ctx, "q", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)

	msgs, listErr := store.List(ctx)
	require.NoError(t, listErr)
	require.Len(t, msgs, 1, "only the user message is recorded")
	assert.Equal(t, domain.RoleUser, msgs[0].Role)

	assert.Equal(t, domain.PhaseError, conv.Phase())
	assert.False(t, conv.Loading())
	assert.NotEmpty(t, conv.LastError())
}

func TestConversation_OpenFailureSetsError(t *testing.T) {
	ctx := context.Background()
	backend := &mockChatBackend{openErr: errors.New("refused")}
	store := memory.NewMessageStore()
	conv := NewConversation(backend, store)

	_, err := conv.Ask(ctx, "q", nil)
	require.Error(t, err)

	assert.Equal(t, domain.PhaseError, conv.Phase())
	assert.NotEmpty(t, conv.LastError())

	// Submitting again from the error phase behaves like idle and
	// clears the error.
	backend.openErr = nil
	backend.stream = &scriptedStream{chunks: chunks("recovered")}
	msg, err := conv.Ask(ctx, "again", nil)
	require.NoError(t, err)
	assert.Equal(t, "recovered", msg.Content)
	assert.Empty(t, conv.LastError())
	assert.Equal(t, domain.PhaseIdle, conv.Phase())
}

func TestConversation_HistoryReplaysPriorExchanges(t *testing.T) {
	ctx := context.Background()
	backend := &mockChatBackend{stream: &scriptedStream{chunks: chunks("first answer")}}
	store := memory.NewMessageStore()
	conv := NewConversation(backend, store)

	_, err := conv.Ask(ctx, "first question", nil)
	require.NoError(t, err)
	assert.Empty(t, backend.lastHistory, "first question carries no history")

	backend.stream = &scriptedStream{chunks: chunks("second answer")}
	_, err = conv.Ask(ctx, "second question", nil)
	require.NoError(t, err)

	require.Len(t, backend.lastHistory, 2)
	assert.Equal(t, domain.RoleUser, backend.lastHistory[0].Role)
	assert.Equal(t, "first question", backend.lastHistory[0].Content)
	assert.Equal(t, domain.RoleAssistant, backend.lastHistory[1].Role)
	assert.Equal(t, "first answer", backend.lastHistory[1].Content)
}

func TestConversation_SourcesCommitted(t *testing.T) {
	ctx := context.Background()
	backend := &mockChatBackend{stream: &scriptedStream{chunks: chunks(
		`revenue grew[END_META]{"sources":[{"page":7,"content":"Revenue...","score":0.83,` +
			`"metadata":{"pages":120,"chunk_type":"paragraph"}}],"processing_time":3.1}`,
	)}}
	conv := NewConversation(backend, memory.NewMessageStore())

	msg, err := conv.Ask(ctx, "how did revenue develop?", nil)
	require.NoError(t, err)

	require.Len(t, msg.Sources, 1)
	src := msg.Sources[0]
	assert.Equal(t, 7, src.Page)
	assert.Equal(t, "Revenue...", src.Content)
	assert.Equal(t, 0.83, src.Score)
	require.NotNil(t, src.Metadata)
	assert.Equal(t, 120, src.Metadata.Pages)
	assert.Equal(t, "paragraph", src.Metadata.ChunkType)
	assert.Equal(t, 3.1, msg.ProcessingTime)
}

func TestConversation_ClosedRejectsAsk(t *testing.T) {
	ctx := context.Background()
	conv := NewConversation(&mockChatBackend{}, memory.NewMessageStore())
	require.NoError(t, conv.Close())

	_, err := conv.Ask(ctx, "q", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
