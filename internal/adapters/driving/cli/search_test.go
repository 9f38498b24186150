package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := executeCommand(t, "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_NoService(t *testing.T) {
	searchService = nil

	_, err := executeCommand(t, "search", "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestSearchCmd_NoResults(t *testing.T) {
	searchService = &mockSearchService{
		searchFunc: func(context.Context, string, int) ([]domain.SearchResult, error) {
			return nil, nil
		},
	}
	defer func() { searchService = nil }()

	out, err := executeCommand(t, "search", "nothing here")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_PrintsRankedResults(t *testing.T) {
	searchService = &mockSearchService{
		searchFunc: func(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
			assert.Equal(t, "small pets", query)
			assert.Equal(t, 3, topK)
			return []domain.SearchResult{
				{Document: &domain.Document{ID: "1", Content: "Cats are small domesticated animals.", Metadata: domain.DocumentMetadata{Name: "cats.txt"}}, Similarity: 0.71},
				{Document: &domain.Document{ID: "2", Content: "Dogs bark.", Metadata: domain.DocumentMetadata{Name: "dogs.txt"}}, Similarity: 0.42},
			}, nil
		},
	}
	defer func() { searchService = nil }()

	out, err := executeCommand(t, "search", "small pets", "-n", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "[1] cats.txt (0.71)")
	assert.Contains(t, out, "[2] dogs.txt (0.42)")
	assert.Contains(t, out, "Cats are small domesticated animals.")
}

func TestSnippet_TruncatesAndFlattens(t *testing.T) {
	got := snippet("line one\nline two", 100)
	assert.Equal(t, "line one line two", got)

	got = snippet("abcdefghij", 5)
	assert.Equal(t, "abcde...", got)
}
