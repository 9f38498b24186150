package driving

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// ChatService runs conversations backed by the pipeline and records
// their transcripts.
type ChatService interface {
	// StartSession creates a new chat session.
	StartSession(ctx context.Context) (*domain.ChatSession, error)

	// Send records the user turn, runs the pipeline, records the
	// assistant turn, and returns the pipeline response.
	Send(ctx context.Context, sessionID, message string) (*domain.RAGResponse, error)

	// Sessions lists past sessions, most recent first.
	Sessions(ctx context.Context) ([]domain.ChatSession, error)

	// History returns a session's messages in chronological order.
	History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)

	// DeleteSession removes a session and its messages.
	DeleteSession(ctx context.Context, sessionID string) error
}
