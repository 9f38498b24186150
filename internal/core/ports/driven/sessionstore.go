package driven

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// SessionStore persists chat sessions and their messages.
// The knowledge base itself is in-memory; transcripts are the one
// thing worth keeping between runs.
type SessionStore interface {
	// SaveSession stores or updates a session.
	SaveSession(ctx context.Context, session domain.ChatSession) error

	// GetSession retrieves a session by ID.
	// Returns domain.ErrNotFound when absent.
	GetSession(ctx context.Context, id string) (*domain.ChatSession, error)

	// ListSessions returns all sessions, most recent first.
	ListSessions(ctx context.Context) ([]domain.ChatSession, error)

	// AppendMessage adds a message to a session.
	AppendMessage(ctx context.Context, message domain.ChatMessage) error

	// Messages returns a session's messages in chronological order.
	Messages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)

	// DeleteSession removes a session and its messages.
	DeleteSession(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
