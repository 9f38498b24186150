package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
	"github.com/custodia-labs/ragman/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// sessionTitleLimit caps the session title derived from the first
// message.
const sessionTitleLimit = 50

// ChatService runs conversations backed by the pipeline and records
// their transcripts.
type ChatService struct {
	sessions driven.SessionStore
	pipeline driving.PipelineService
}

// NewChatService creates a new chat service.
func NewChatService(sessions driven.SessionStore, pipeline driving.PipelineService) *ChatService {
	return &ChatService{
		sessions: sessions,
		pipeline: pipeline,
	}
}

// StartSession creates a new chat session. Its title stays empty until
// the first message arrives.
func (s *ChatService) StartSession(ctx context.Context) (*domain.ChatSession, error) {
	session := domain.ChatSession{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	logger.Debug("Started chat session %s", session.ID)
	return &session, nil
}

// Send records the user turn, runs the pipeline, records the assistant
// turn, and returns the pipeline response.
func (s *ChatService) Send(ctx context.Context, sessionID, message string) (*domain.RAGResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("send: %w", domain.ErrEmptyQuery)
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("send to session %s: %w", sessionID, err)
	}

	if session.Title == "" {
		session.Title = sessionTitle(message)
		if err := s.sessions.SaveSession(ctx, *session); err != nil {
			return nil, fmt.Errorf("send to session %s: %w", sessionID, err)
		}
	}

	now := time.Now()
	userTurn := domain.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      domain.ChatRoleUser,
		Content:   message,
		CreatedAt: now,
	}
	if err := s.sessions.AppendMessage(ctx, userTurn); err != nil {
		return nil, fmt.Errorf("send to session %s: %w", sessionID, err)
	}

	resp, err := s.pipeline.Ask(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("send to session %s: %w", sessionID, err)
	}

	assistantTurn := domain.ChatMessage{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Role:       domain.ChatRoleAssistant,
		Content:    resp.Answer,
		Confidence: resp.Context.Confidence,
		CreatedAt:  time.Now(),
	}
	if err := s.sessions.AppendMessage(ctx, assistantTurn); err != nil {
		return nil, fmt.Errorf("send to session %s: %w", sessionID, err)
	}

	return resp, nil
}

// Sessions lists past sessions, most recent first.
func (s *ChatService) Sessions(ctx context.Context) ([]domain.ChatSession, error) {
	sessions, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// History returns a session's messages in chronological order.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("session history %s: %w", sessionID, err)
	}

	messages, err := s.sessions.Messages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session history %s: %w", sessionID, err)
	}
	return messages, nil
}

// DeleteSession removes a session and its messages.
func (s *ChatService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	logger.Debug("Deleted chat session %s", sessionID)
	return nil
}

// sessionTitle derives a session title from its first message.
func sessionTitle(message string) string {
	title := strings.Join(strings.Fields(message), " ")
	runes := []rune(title)
	if len(runes) <= sessionTitleLimit {
		return title
	}
	return string(runes[:sessionTitleLimit-3]) + "..."
}
