package domain

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

// Available chat roles.
const (
	// ChatRoleUser is a message typed by the user.
	ChatRoleUser ChatRole = "user"

	// ChatRoleAssistant is a pipeline-generated answer.
	ChatRoleAssistant ChatRole = "assistant"
)

// IsValid returns true if the chat role is recognised.
func (r ChatRole) IsValid() bool {
	return r == ChatRoleUser || r == ChatRoleAssistant
}

// String returns the string representation.
func (r ChatRole) String() string {
	return string(r)
}

// ChatSession groups the messages of one conversation.
type ChatSession struct {
	// ID is the unique identifier for the session.
	ID string

	// Title is a short human-readable label, usually derived from the
	// first user message.
	Title string

	// StartedAt is when the session was created.
	StartedAt time.Time
}

// ChatMessage is a single turn within a session.
type ChatMessage struct {
	// ID is the unique identifier for the message.
	ID string

	// SessionID links to the owning ChatSession.
	SessionID string

	// Role is who authored the message.
	Role ChatRole

	// Content is the message text.
	Content string

	// Confidence is the pipeline confidence for assistant turns,
	// 0 for user turns.
	Confidence int

	// CreatedAt is when the message was recorded.
	CreatedAt time.Time
}
