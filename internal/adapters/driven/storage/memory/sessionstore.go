package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Transcripts vanish with the process; the sqlite store persists them.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.ChatSession
	messages map[string][]domain.ChatMessage
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.ChatSession),
		messages: make(map[string][]domain.ChatMessage),
	}
}

// SaveSession stores or updates a session.
func (s *SessionStore) SaveSession(_ context.Context, session domain.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// GetSession retrieves a session by ID.
func (s *SessionStore) GetSession(_ context.Context, id string) (*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

// ListSessions returns all sessions, most recent first.
func (s *SessionStore) ListSessions(_ context.Context) ([]domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ChatSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		result = append(result, session)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	return result, nil
}

// AppendMessage adds a message to a session.
func (s *SessionStore) AppendMessage(_ context.Context, message domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[message.SessionID]; !ok {
		return domain.ErrNotFound
	}
	s.messages[message.SessionID] = append(s.messages[message.SessionID], message)
	return nil
}

// Messages returns a session's messages in chronological order.
func (s *SessionStore) Messages(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.messages[sessionID]
	result := make([]domain.ChatMessage, len(messages))
	copy(result, messages)
	return result, nil
}

// DeleteSession removes a session and its messages.
func (s *SessionStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.messages, id)
	return nil
}

// Close releases resources (no-op for memory store).
func (s *SessionStore) Close() error {
	return nil
}
