package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatReply(answer string) map[string]any {
	return map[string]any{
		"message": map[string]any{"role": "assistant", "content": answer},
		"done":    true,
	}
}

func TestNew_Defaults(t *testing.T) {
	a := New(Config{})

	assert.Equal(t, DefaultModel, a.ModelName())
	assert.Equal(t, DefaultBaseURL, a.baseURL)
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	a := New(Config{BaseURL: "http://localhost:11434/"})

	assert.Equal(t, "http://localhost:11434", a.baseURL)
}

func TestAnswerer_Generate(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(chatReply("  Cats are small pets.  "))
	}))
	defer server.Close()

	a := New(Config{BaseURL: server.URL, Model: "llama3.2"})

	answer, err := a.Generate(context.Background(), "what are cats", "[cats.txt] Cats purr.", nil)

	require.NoError(t, err)
	assert.Equal(t, "Cats are small pets.", answer, "whitespace trimmed")

	assert.Equal(t, "llama3.2", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, "[cats.txt] Cats purr.")
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "what are cats", gotReq.Messages[1].Content)
}

func TestAnswerer_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	a := New(Config{BaseURL: server.URL})

	_, err := a.Generate(context.Background(), "q", "context", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestAnswerer_Generate_EmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(chatReply(""))
	}))
	defer server.Close()

	a := New(Config{BaseURL: server.URL})

	answer, err := a.Generate(context.Background(), "q", "context", nil)

	require.NoError(t, err)
	assert.Equal(t, "I was unable to generate an answer. Please try again.", answer)
}

func TestAnswerer_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
	}))
	defer server.Close()

	a := New(Config{BaseURL: server.URL})

	assert.NoError(t, a.Ping(context.Background()))
}

func TestAnswerer_Ping_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	a := New(Config{BaseURL: server.URL})

	err := a.Ping(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
}
