package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

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

func answerResponse(answer string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{
				"message":       map[string]any{"role": "assistant", "content": answer},
				"finish_reason": "stop",
			},
		},
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNew_Defaults(t *testing.T) {
	a, err := New(Config{APIKey: "test-key"})

	require.NoError(t, err)
	assert.Equal(t, DefaultModel, a.ModelName())
}

func TestAnswerer_Generate(t *testing.T) {
	var gotReq chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(answerResponse("  Cats are small pets.  "))
	}))
	defer server.Close()

	a, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	answer, err := a.Generate(context.Background(), "what are cats", "[cats.txt] Cats purr.", nil)

	require.NoError(t, err)
	assert.Equal(t, "Cats are small pets.", answer, "whitespace trimmed")

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, "[cats.txt] Cats purr.")
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "what are cats", gotReq.Messages[1].Content)
}

func TestAnswerer_Generate_PromptStoreOverride(t *testing.T) {
	var gotReq chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(answerResponse("ok"))
	}))
	defer server.Close()

	a, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)
	a.SetPromptStore(&stubPromptStore{prompts: map[string]string{
		driven.PromptAnswerSystem: "Answer strictly from: %s",
	}})

	_, err = a.Generate(context.Background(), "q", "the context", nil)

	require.NoError(t, err)
	assert.Equal(t, "Answer strictly from: the context", gotReq.Messages[0].Content)
}

func TestAnswerer_Generate_AuthFailureNotRetried(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	a, err := New(Config{APIKey: "bad-key", BaseURL: server.URL, MaxRetries: 3})
	require.NoError(t, err)

	_, err = a.Generate(context.Background(), "q", "context", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Equal(t, int32(1), requests.Load(), "4xx failures are permanent")
}

func TestAnswerer_Generate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	a, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = a.Generate(context.Background(), "q", "context", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices returned")
}

func TestAnswerer_Generate_EmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(answerResponse("   "))
	}))
	defer server.Close()

	a, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	answer, err := a.Generate(context.Background(), "q", "context", nil)

	require.NoError(t, err)
	assert.Equal(t, "I was unable to generate an answer. Please try again.", answer)
}

func TestAnswerer_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
	}))
	defer server.Close()

	a, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	assert.NoError(t, a.Ping(context.Background()))
}

func TestAnswerer_Ping_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	a, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	err = a.Ping(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
