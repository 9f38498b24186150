package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// SaveSession stores or updates a session.
func (s *sessionStore) SaveSession(ctx context.Context, session domain.ChatSession) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, title, started_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			started_at = excluded.started_at
	`, session.ID, session.Title, session.StartedAt)

	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *sessionStore) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, started_at
		FROM sessions WHERE id = ?
	`, id)

	var session domain.ChatSession
	var startedAt sql.NullTime
	if err := row.Scan(&session.ID, &session.Title, &startedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	if startedAt.Valid {
		session.StartedAt = startedAt.Time
	}

	return &session, nil
}

// ListSessions returns all sessions, most recent first.
func (s *sessionStore) ListSessions(ctx context.Context) ([]domain.ChatSession, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, started_at
		FROM sessions
		ORDER BY started_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ChatSession //nolint:prealloc // size unknown from query
	for rows.Next() {
		var session domain.ChatSession
		var startedAt sql.NullTime
		if err := rows.Scan(&session.ID, &session.Title, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if startedAt.Valid {
			session.StartedAt = startedAt.Time
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// AppendMessage adds a message to a session.
// Returns domain.ErrNotFound when the session does not exist.
func (s *sessionStore) AppendMessage(ctx context.Context, message domain.ChatMessage) error {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE id = ?", message.SessionID).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	if count == 0 {
		return domain.ErrNotFound
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO messages (id, session_id, role, content, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, message.ID, message.SessionID, string(message.Role), message.Content,
		message.Confidence, message.CreatedAt)

	if err != nil {
		return fmt.Errorf("appending message: %w", err)
	}
	return nil
}

// Messages returns a session's messages in chronological order.
// The implicit rowid breaks timestamp ties in insertion order.
func (s *sessionStore) Messages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, confidence, created_at
		FROM messages WHERE session_id = ?
		ORDER BY created_at, rowid
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var message domain.ChatMessage
		var role string
		var createdAt sql.NullTime
		if err := rows.Scan(&message.ID, &message.SessionID, &role,
			&message.Content, &message.Confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		message.Role = domain.ChatRole(role)
		if createdAt.Valid {
			message.CreatedAt = createdAt.Time
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return messages, nil
}

// DeleteSession removes a session and its messages. Deleting an unknown
// session is not an error.
func (s *sessionStore) DeleteSession(ctx context.Context, id string) error {
	// ON DELETE CASCADE removes the messages
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *sessionStore) Close() error {
	return s.store.Close()
}
