package failover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragman/internal/adapters/driven/llm/extractive"
	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/logger"
)

// stubAnswerer implements driven.AnswerService and PromptStoreAware
// with canned behaviour.
type stubAnswerer struct {
	answer      string
	err         error
	name        string
	pingErr     error
	closeErr    error
	calls       int
	closed      bool
	promptStore driven.PromptStore
}

func (s *stubAnswerer) Generate(_ context.Context, _, _ string, _ []domain.SearchResult) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func (s *stubAnswerer) ModelName() string { return s.name }

func (s *stubAnswerer) Ping(_ context.Context) error { return s.pingErr }

func (s *stubAnswerer) Close() error {
	s.closed = true
	return s.closeErr
}

func (s *stubAnswerer) SetPromptStore(store driven.PromptStore) { s.promptStore = store }

// stubPromptStore implements driven.PromptStore over a map.
type stubPromptStore struct {
	prompts map[string]string
}

func (s *stubPromptStore) Load(name string) (string, error) {
	prompt, ok := s.prompts[name]
	if !ok {
		return "", errors.New("not found")
	}
	return prompt, nil
}

func (s *stubPromptStore) Reload() {}

func testSources() []domain.SearchResult {
	return []domain.SearchResult{
		{Document: &domain.Document{ID: "doc-1"}, Similarity: 0.8},
	}
}

func TestAnswerer_EmptyContext_ShortCircuits(t *testing.T) {
	primary := &stubAnswerer{answer: "should not be called"}
	fallback := &stubAnswerer{answer: "should not be called either"}
	a := New(primary, fallback)

	answer, err := a.Generate(context.Background(), "what are cats", "   ", testSources())

	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(defaultInsufficientPrompt, "what are cats"), answer)
	assert.Equal(t, 0, primary.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestAnswerer_NoSources_ShortCircuits(t *testing.T) {
	primary := &stubAnswerer{answer: "should not be called"}
	a := New(primary, &stubAnswerer{})

	answer, err := a.Generate(context.Background(), "what are cats", "some context", nil)

	require.NoError(t, err)
	assert.Contains(t, answer, "I don't have enough information")
	assert.Equal(t, 0, primary.calls)
}

func TestAnswerer_NilPrimary_UsesFallback(t *testing.T) {
	fallback := &stubAnswerer{answer: "fallback answer"}
	a := New(nil, fallback)

	answer, err := a.Generate(context.Background(), "q", "context", testSources())

	require.NoError(t, err)
	assert.Equal(t, "fallback answer", answer)
}

func TestAnswerer_PrimarySucceeds(t *testing.T) {
	primary := &stubAnswerer{answer: "primary answer"}
	fallback := &stubAnswerer{answer: "fallback answer"}
	a := New(primary, fallback)

	answer, err := a.Generate(context.Background(), "q", "context", testSources())

	require.NoError(t, err)
	assert.Equal(t, "primary answer", answer)
	assert.Equal(t, 0, fallback.calls)
}

func TestAnswerer_PrimaryFails_FallsBackToExtractive(t *testing.T) {
	primary := &stubAnswerer{err: errors.New("api key revoked"), name: "gpt-4o-mini"}
	a := New(primary, extractive.New())

	contextText := "Cats are small domesticated animals kept as pets. They purr when content."
	answer, err := a.Generate(context.Background(), "what are cats", contextText, testSources())

	require.NoError(t, err, "a primary failure must not surface")
	assert.Contains(t, answer, "Cats are small domesticated animals")
	assert.Contains(t, answer, "(Based on 1 source, average relevance 80%)")
}

func TestAnswerer_PrimaryFailure_Logged(t *testing.T) {
	var buf bytes.Buffer
	logger.SetVerbose(true)
	logger.SetOutput(&buf)
	defer func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()

	primary := &stubAnswerer{err: errors.New("overloaded"), name: "remote-model"}
	fallback := &stubAnswerer{answer: "ok", name: "local-model"}
	a := New(primary, fallback)

	_, err := a.Generate(context.Background(), "q", "context", testSources())

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "remote-model failed, using local-model")
	assert.Contains(t, buf.String(), "overloaded")
}

func TestAnswerer_SetPromptStore_Propagates(t *testing.T) {
	primary := &stubAnswerer{}
	fallback := &stubAnswerer{}
	a := New(primary, fallback)
	store := &stubPromptStore{}

	a.SetPromptStore(store)

	assert.Same(t, store, primary.promptStore)
	assert.Same(t, store, fallback.promptStore)
}

func TestAnswerer_InsufficientPrompt_Overridable(t *testing.T) {
	a := New(&stubAnswerer{}, &stubAnswerer{})
	a.SetPromptStore(&stubPromptStore{prompts: map[string]string{
		driven.PromptInsufficientContext: "Nothing indexed matches %s.",
	}})

	answer, err := a.Generate(context.Background(), "quarks", "", nil)

	require.NoError(t, err)
	assert.Equal(t, "Nothing indexed matches quarks.", answer)
}

func TestAnswerer_ModelName_PrefersPrimary(t *testing.T) {
	assert.Equal(t, "remote", New(&stubAnswerer{name: "remote"}, &stubAnswerer{name: "local"}).ModelName())
	assert.Equal(t, "local", New(nil, &stubAnswerer{name: "local"}).ModelName())
}

func TestAnswerer_Ping_ChecksPrimary(t *testing.T) {
	pingErr := errors.New("unreachable")

	assert.ErrorIs(t, New(&stubAnswerer{pingErr: pingErr}, &stubAnswerer{}).Ping(context.Background()), pingErr)
	assert.NoError(t, New(nil, &stubAnswerer{}).Ping(context.Background()))
}

func TestAnswerer_Close_ClosesBoth(t *testing.T) {
	closeErr := errors.New("close failed")
	primary := &stubAnswerer{closeErr: closeErr}
	fallback := &stubAnswerer{}
	a := New(primary, fallback)

	err := a.Close()

	assert.ErrorIs(t, err, closeErr)
	assert.True(t, primary.closed)
	assert.True(t, fallback.closed)
}
