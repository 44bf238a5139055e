// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/finqa-cli/internal/core/domain"
)

// QuestionSubmitted is sent when the user submits a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerDelta carries one increment of streamed answer text.
type AnswerDelta struct {
	Text string
}

// ExchangeFinished signals that the in-flight exchange ended.
// On success Message holds the committed assistant answer; on
// failure Err is set and no message was recorded.
type ExchangeFinished struct {
	Message *domain.Message
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
