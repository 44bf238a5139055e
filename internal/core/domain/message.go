package domain

import "time"

// Role identifies the author of a conversation message.
type Role string

// Conversation roles understood by the backend.
const (
	// RoleUser marks a question submitted by the user.
	RoleUser Role = "user"

	// RoleAssistant marks an answer produced by the backend.
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Message is one committed entry in a conversation.
// A message is immutable once appended to the store; insertion
// order is conversation order and is replayed verbatim as chat
// history on the next question.
type Message struct {
	// ID is the unique, stable identifier for the message.
	ID string

	// Role is who authored the message.
	Role Role

	// Content is the message text. For assistant messages this is
	// the fully assembled answer with trailing whitespace trimmed.
	Content string

	// Sources lists the retrieved passages supporting an assistant
	// answer. Empty for user messages and for answers whose
	// metadata could not be parsed.
	Sources []Source

	// ProcessingTime is the backend-reported answer time in
	// seconds. Zero when the backend did not report one.
	ProcessingTime float64

	// CreatedAt is when the message was committed.
	CreatedAt time.Time
}

// Source is a retrieved passage supporting an answer.
type Source struct {
	// Page is the page number the passage was taken from.
	Page int `json:"page"`

	// Content is the passage excerpt.
	Content string `json:"content,omitempty"`

	// Score is the relevance score in [0, 1].
	Score float64 `json:"score,omitempty"`

	// Metadata carries optional document-level details.
	Metadata *SourceMetadata `json:"metadata,omitempty"`
}

// SourceMetadata describes the document a source was retrieved from.
type SourceMetadata struct {
	// Pages is the total page count of the document.
	Pages int `json:"pages,omitempty"`

	// ChunkType describes how the passage was extracted.
	ChunkType string `json:"chunk_type,omitempty"`
}

// StreamMetadata is the structured payload that trails the answer
// text on the chat stream, after the metadata sentinel.
type StreamMetadata struct {
	// Sources are the retrieved passages, in relevance order.
	Sources []Source `json:"sources"`

	// ProcessingTime is the backend-side answer time in seconds.
	ProcessingTime float64 `json:"processing_time"`
}

// Normalise clamps out-of-range values to their documented bounds.
// Scores are kept within [0, 1] and negative pages become zero, so
// a sloppy backend payload degrades instead of propagating.
func (m *StreamMetadata) Normalise() {
	if m.ProcessingTime < 0 {
		m.ProcessingTime = 0
	}
	for i := range m.Sources {
		if m.Sources[i].Page < 0 {
			m.Sources[i].Page = 0
		}
		if m.Sources[i].Score < 0 {
			m.Sources[i].Score = 0
		}
		if m.Sources[i].Score > 1 {
			m.Sources[i].Score = 1
		}
	}
}
