package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
	"github.com/custodia-labs/finqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/finqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/finqa-cli/internal/logger"
)

// Ensure Conversation implements the interface.
var _ driving.ChatService = (*Conversation)(nil)

// streamReadSize is the read buffer size for the answer stream.
const streamReadSize = 4 * 1024

// Conversation runs the question/answer state machine for one
// conversation session.
//
// Lifecycle of a successful exchange:
//
//	idle -> sending -> streaming -> finalising -> idle
//
// A transport failure anywhere in flight moves to the error phase,
// discards the pending exchange and records no assistant message.
// Submitting from the error phase behaves exactly like idle (the
// error is implicitly cleared). The loading guard admits at most one
// exchange at a time.
type Conversation struct {
	backend driven.ChatBackend
	store   driven.MessageStore

	mu       sync.Mutex
	exchange *domain.Exchange
	phase    domain.ExchangePhase
	loading  bool
	lastErr  string
	cancel   context.CancelFunc
	closed   bool
	now      func() time.Time
}

// NewConversation creates a conversation over the given backend and
// message store.
func NewConversation(backend driven.ChatBackend, store driven.MessageStore) *Conversation {
	return &Conversation{
		backend: backend,
		store:   store,
		phase:   domain.PhaseIdle,
		now:     time.Now,
	}
}

// Ask submits a question and drives the exchange to completion.
func (c *Conversation) Ask(ctx context.Context, question string, onDelta func(string)) (*domain.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	ctx, history, err := c.begin(ctx, question)
	if err != nil {
		return nil, err
	}

	logger.Section("Chat Exchange")
	logger.Debug("Question: %q, history: %d messages", question, len(history))

	stream, err := c.backend.AskStream(ctx, question, history)
	if err != nil {
		return nil, c.fail(fmt.Errorf("open answer stream: %w", err))
	}
	defer stream.Close()

	c.setPhase(domain.PhaseStreaming)

	asm := NewAnswerAssembler()
	buf := make([]byte, streamReadSize)
	for {
		n, readErr := stream.Read(buf)
		if n > 0 {
			c.emit(asm.Push(buf[:n]), onDelta)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, c.fail(fmt.Errorf("%w: read answer stream: %v", domain.ErrTransport, readErr))
		}
	}

	c.setPhase(domain.PhaseFinalising)
	tail, meta := asm.Finalise()
	c.emit(tail, onDelta)

	return c.commit(ctx, meta)
}

// begin validates the guard, records the user message and opens a
// fresh exchange. It returns the chat history as it stood before
// this question.
func (c *Conversation) begin(ctx context.Context, question string) (context.Context, []domain.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, nil, domain.ErrInvalidInput
	}
	if c.loading {
		return nil, nil, domain.ErrBusy
	}

	history, err := c.store.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load history: %w", err)
	}

	userMsg := domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Content:   question,
		CreatedAt: c.now(),
	}
	if err := c.store.Append(ctx, userMsg); err != nil {
		return nil, nil, fmt.Errorf("record question: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.lastErr = ""
	c.loading = true
	c.phase = domain.PhaseSending
	c.exchange = &domain.Exchange{
		Question: question,
		Phase:    domain.PhaseSending,
	}

	return ctx, history, nil
}

// emit appends delta to the pending answer and surfaces it.
func (c *Conversation) emit(delta string, onDelta func(string)) {
	if delta == "" {
		return
	}
	c.mu.Lock()
	if c.exchange != nil {
		c.exchange.Answer += delta
	}
	c.mu.Unlock()
	if onDelta != nil {
		onDelta(delta)
	}
}

// commit finalises a successful exchange into an assistant message.
func (c *Conversation) commit(ctx context.Context, meta domain.StreamMetadata) (*domain.Message, error) {
	c.mu.Lock()
	answer := ""
	if c.exchange != nil {
		answer = c.exchange.Answer
	}
	answer = strings.TrimRightFunc(answer, unicode.IsSpace)

	msg := domain.Message{
		ID:             uuid.NewString(),
		Role:           domain.RoleAssistant,
		Content:        answer,
		Sources:        meta.Sources,
		ProcessingTime: meta.ProcessingTime,
		CreatedAt:      c.now(),
	}
	c.mu.Unlock()

	if err := c.store.Append(ctx, msg); err != nil {
		return nil, c.fail(fmt.Errorf("record answer: %w", err))
	}

	c.mu.Lock()
	c.exchange = nil
	c.loading = false
	c.phase = domain.PhaseIdle
	c.cancel = nil
	c.mu.Unlock()

	logger.Debug("Committed answer: %d chars, %d sources, %.2fs",
		len(msg.Content), len(msg.Sources), msg.ProcessingTime)
	return &msg, nil
}

// fail aborts the in-flight exchange. The pending answer text is
// discarded outright; no assistant message is recorded.
func (c *Conversation) fail(err error) error {
	c.mu.Lock()
	c.exchange = nil
	c.loading = false
	c.phase = domain.PhaseError
	c.lastErr = err.Error()
	c.cancel = nil
	c.mu.Unlock()

	logger.Warn("Exchange failed: %v", err)
	return err
}

// setPhase advances the exchange phase.
func (c *Conversation) setPhase(phase domain.ExchangePhase) {
	c.mu.Lock()
	c.phase = phase
	if c.exchange != nil {
		c.exchange.Phase = phase
	}
	c.mu.Unlock()
}

// History returns all committed messages in conversation order.
func (c *Conversation) History(ctx context.Context) ([]domain.Message, error) {
	return c.store.List(ctx)
}

// Phase reports the current exchange phase.
func (c *Conversation) Phase() domain.ExchangePhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Loading reports whether an exchange is in flight.
func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LastError returns the cause of the last failed exchange.
func (c *Conversation) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close aborts any in-flight exchange and retires the conversation.
func (c *Conversation) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return nil
}
