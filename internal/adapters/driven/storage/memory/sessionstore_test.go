package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

func TestSessionStore_SaveAndGetSession(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	session := domain.ChatSession{ID: "sess-1", Title: "cats", StartedAt: time.Now()}
	require.NoError(t, store.SaveSession(ctx, session))

	saved, err := store.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "cats", saved.Title)
}

func TestSessionStore_SaveSession_Upserts(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, domain.ChatSession{ID: "sess-1"}))
	require.NoError(t, store.SaveSession(ctx, domain.ChatSession{ID: "sess-1", Title: "titled later"}))

	saved, err := store.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "titled later", saved.Title)

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestSessionStore_GetSession_NotFound(t *testing.T) {
	store := NewSessionStore()

	_, err := store.GetSession(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_ListSessions_MostRecentFirst(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, store.SaveSession(ctx, domain.ChatSession{ID: "old", StartedAt: base.Add(-time.Hour)}))
	require.NoError(t, store.SaveSession(ctx, domain.ChatSession{ID: "new", StartedAt: base}))

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "new", sessions[0].ID)
	assert.Equal(t, "old", sessions[1].ID)
}

func TestSessionStore_AppendMessage_RequiresSession(t *testing.T) {
	store := NewSessionStore()

	err := store.AppendMessage(context.Background(), domain.ChatMessage{
		ID:        "msg-1",
		SessionID: "missing",
		Role:      domain.ChatRoleUser,
		Content:   "hello",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_Messages_ChronologicalOrder(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, domain.ChatSession{ID: "sess-1"}))

	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, store.AppendMessage(ctx, domain.ChatMessage{
			ID:        content,
			SessionID: "sess-1",
			Role:      domain.ChatRoleUser,
			Content:   content,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	messages, err := store.Messages(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	assert.Equal(t, "third", messages[2].Content)
}

func TestSessionStore_Messages_ReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, domain.ChatSession{ID: "sess-1"}))
	require.NoError(t, store.AppendMessage(ctx, domain.ChatMessage{ID: "msg-1", SessionID: "sess-1", Content: "original"}))

	messages, err := store.Messages(ctx, "sess-1")
	require.NoError(t, err)
	messages[0].Content = "mutated"

	again, err := store.Messages(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content, "callers must not share the stored slice")
}

func TestSessionStore_DeleteSession(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, domain.ChatSession{ID: "sess-1"}))
	require.NoError(t, store.AppendMessage(ctx, domain.ChatMessage{ID: "msg-1", SessionID: "sess-1"}))

	require.NoError(t, store.DeleteSession(ctx, "sess-1"))

	_, err := store.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	messages, err := store.Messages(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, messages)
}
