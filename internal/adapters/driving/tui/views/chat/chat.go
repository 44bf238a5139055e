// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finqa-cli/internal/core/domain"
	"github.com/custodia-labs/finqa-cli/internal/core/ports/driving"
)

// deltaBuffer bounds streamed tokens queued between renders.
const deltaBuffer = 64

// View is the conversation view: transcript, question input and
// status bar. It mirrors the conversation state machine for display:
// the committed transcript plus at most one pending answer.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript viewport.Model
	statusbar  *status.Bar
	spinner    spinner.Model

	chat driving.ChatService
	ctx  context.Context

	// committed messages, in conversation order.
	history []domain.Message

	// streaming is the pending answer text of the in-flight
	// exchange. Discarded on failure, never shown again.
	streaming string
	loading   bool
	err       error

	deltas chan string

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chat driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: viewport.New(80, 20),
		statusbar:  status.NewBar(s),
		spinner:    sp,
		chat:       chat,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerDelta:
		v.streaming += msg.Text
		v.refreshTranscript()
		return v, v.waitForDelta()

	case messages.ExchangeFinished:
		return v, v.handleExchangeFinished(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmds []tea.Cmd

	var inputCmd tea.Cmd
	v.input, inputCmd = v.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	var vpCmd tea.Cmd
	v.transcript, vpCmd = v.transcript.Update(msg)
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}

	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keymap.Submit):
		return v, v.submit()

	case key.Matches(msg, v.keymap.ScrollUp), key.Matches(msg, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit starts a new exchange. No-op while one is in flight or when
// the input is empty, matching the conversation guard.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.loading {
		return nil
	}

	v.input.Reset()
	v.err = nil
	v.loading = true
	v.streaming = ""
	v.history = append(v.history, domain.Message{Role: domain.RoleUser, Content: question})
	v.statusbar.SetState(status.StateStreaming)
	v.refreshTranscript()

	deltas := make(chan string, deltaBuffer)
	v.deltas = deltas

	ask := func() tea.Msg {
		msg, err := v.chat.Ask(v.ctx, question, func(delta string) {
			deltas <- delta
		})
		close(deltas)
		return messages.ExchangeFinished{Message: msg, Err: err}
	}

	return tea.Batch(ask, v.waitForDelta(), v.spinner.Tick)
}

// waitForDelta relays the next streamed token into the update loop.
func (v *View) waitForDelta() tea.Cmd {
	ch := v.deltas
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		delta, ok := <-ch
		if !ok {
			return nil
		}
		return messages.AnswerDelta{Text: delta}
	}
}

// handleExchangeFinished folds the exchange result into the view.
func (v *View) handleExchangeFinished(msg messages.ExchangeFinished) tea.Cmd {
	v.loading = false
	v.streaming = ""
	v.deltas = nil

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		v.refreshTranscript()
		return nil
	}

	if msg.Message != nil {
		v.history = append(v.history, *msg.Message)
	}
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
	v.refreshTranscript()
	return nil
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Loading..."
	}

	sections := []string{
		v.transcript.View(),
		v.input.View(),
		v.statusbar.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions updates the layout for a new terminal size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	inputHeight := lipgloss.Height(v.input.View())
	transcriptHeight := height - inputHeight - 1
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	v.transcript.Width = width
	v.transcript.Height = transcriptHeight
	v.refreshTranscript()
}

// refreshTranscript re-renders the transcript and follows the tail.
func (v *View) refreshTranscript() {
	v.transcript.SetContent(v.renderTranscript())
	v.transcript.GotoBottom()
}

// renderTranscript renders committed messages plus the pending
// answer, if any.
func (v *View) renderTranscript() string {
	var b strings.Builder

	for i := range v.history {
		v.renderMessage(&b, &v.history[i])
	}

	if v.loading {
		b.WriteString(v.styles.AssistantLabel.Render("FinQA: "))
		if v.streaming == "" {
			b.WriteString(v.spinner.View())
		} else {
			b.WriteString(v.styles.Normal.Render(v.streaming))
		}
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

// renderMessage renders one committed message with its sources.
func (v *View) renderMessage(b *strings.Builder, msg *domain.Message) {
	switch msg.Role {
	case domain.RoleUser:
		b.WriteString(v.styles.UserLabel.Render("You: "))
	case domain.RoleAssistant:
		b.WriteString(v.styles.AssistantLabel.Render("FinQA: "))
	}
	b.WriteString(v.styles.Normal.Render(msg.Content))
	b.WriteString("\n")

	for i, src := range msg.Sources {
		line := fmt.Sprintf("  [%d] page %d (%.2f)", i+1, src.Page, src.Score)
		b.WriteString(v.styles.Muted.Render(line))
		b.WriteString("\n")
	}
	if msg.ProcessingTime > 0 {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  answered in %.2fs", msg.ProcessingTime)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// History returns the committed messages shown in the transcript.
func (v *View) History() []domain.Message {
	return v.history
}

// Loading reports whether an exchange is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last displayed error.
func (v *View) Err() error {
	return v.err
}
