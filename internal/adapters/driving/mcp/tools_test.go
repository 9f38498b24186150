package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

func validPorts() *Ports {
	return &Ports{
		Pipeline: &mockPipelineService{},
		Search:   &mockSearchService{},
	}
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources", func(t *testing.T) {
		ports := validPorts()
		ports.Pipeline = &mockPipelineService{
			response: &domain.RAGResponse{
				Answer:  "Cats are small domesticated animals.",
				Context: domain.RAGContext{Confidence: 71},
				Sources: []domain.SearchResult{
					{
						Document: &domain.Document{
							ID:       "doc-1",
							Metadata: domain.DocumentMetadata{Name: "cats.txt"},
						},
						Similarity: 0.71,
					},
				},
				ProcessingTimeMs: 4,
			},
		}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "what are cats"})

		require.NoError(t, err)
		assert.Equal(t, "Cats are small domesticated animals.", output.Answer)
		assert.Equal(t, 71, output.Confidence)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "doc-1", output.Sources[0].DocumentID)
		assert.Equal(t, "cats.txt", output.Sources[0].Name)
		assert.Equal(t, 0.71, output.Sources[0].Similarity)
	})

	t.Run("returns error on pipeline failure", func(t *testing.T) {
		ports := validPorts()
		ports.Pipeline = &mockPipelineService{err: errors.New("pipeline failed")}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "anything"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "pipeline failed")
	})
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		ports := validPorts()
		ports.Search = &mockSearchService{
			results: []domain.SearchResult{
				{
					Document: &domain.Document{
						ID:       "doc-1",
						Content:  "This is the content",
						Metadata: domain.DocumentMetadata{Name: "Test Doc"},
					},
					Similarity: 0.95,
				},
			},
		}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "test", TopK: 10})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "doc-1", output.Results[0].DocumentID)
		assert.Equal(t, "Test Doc", output.Results[0].Name)
		assert.Equal(t, 0.95, output.Results[0].Similarity)
		assert.Equal(t, "This is the content", output.Results[0].Content)
	})

	t.Run("zero top_k falls back to default", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		ports := validPorts()
		ports.Search = mockSearch

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "test", TopK: 0})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, domain.DefaultTopK, mockSearch.lastTopK)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		ports := validPorts()
		ports.Search = &mockSearchService{err: errors.New("search failed")}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleStats(t *testing.T) {
	ctx := context.Background()

	ports := validPorts()
	ports.Pipeline = &mockPipelineService{
		stats: &domain.PipelineStats{
			KnowledgeBaseStats: domain.KnowledgeBaseStats{
				DocumentCount:    3,
				TotalTokens:      120,
				VectorDimensions: 100,
			},
			PipelineVersion: "1.0",
			Features:        []string{"vector search"},
		},
	}

	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleStats(ctx, nil, StatsInput{})

	require.NoError(t, err)
	assert.Equal(t, 3, output.DocumentCount)
	assert.Equal(t, 120, output.TotalTokens)
	assert.Equal(t, 100, output.VectorDimensions)
	assert.Equal(t, "1.0", output.PipelineVersion)
	assert.Equal(t, []string{"vector search"}, output.Features)
}

func TestServer_handleAddDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("stores document", func(t *testing.T) {
		ports := validPorts()
		ports.Ingest = &mockIngestService{
			document: &domain.Document{
				ID:       "doc-1",
				Content:  "one two three",
				Metadata: domain.DocumentMetadata{Name: "notes"},
			},
		}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleAddDocument(ctx, nil, AddDocumentInput{
			Name:    "notes",
			Content: "one two three",
		})

		require.NoError(t, err)
		assert.Equal(t, "doc-1", output.DocumentID)
		assert.Equal(t, "notes", output.Name)
		assert.Equal(t, 3, output.Tokens)
	})

	t.Run("returns error on ingest failure", func(t *testing.T) {
		ports := validPorts()
		ports.Ingest = &mockIngestService{err: domain.ErrInvalidInput}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAddDocument(ctx, nil, AddDocumentInput{Content: ""})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleRemoveDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("reports removal", func(t *testing.T) {
		ports := validPorts()
		ports.Document = &mockDocumentService{removed: true}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleRemoveDocument(ctx, nil, RemoveDocumentInput{DocumentID: "doc-1"})

		require.NoError(t, err)
		assert.True(t, output.Removed)
	})

	t.Run("reports missing document", func(t *testing.T) {
		ports := validPorts()
		ports.Document = &mockDocumentService{removed: false}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleRemoveDocument(ctx, nil, RemoveDocumentInput{DocumentID: "ghost"})

		require.NoError(t, err)
		assert.False(t, output.Removed)
	})
}

func TestServer_handleListDocuments(t *testing.T) {
	ctx := context.Background()

	ports := validPorts()
	ports.Document = &mockDocumentService{
		documents: []domain.Document{
			{
				ID:      "doc-1",
				Content: "one two",
				Metadata: domain.DocumentMetadata{
					Name:       "notes",
					SourceKind: domain.SourceKindText,
				},
			},
		},
	}

	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	require.Len(t, output.Documents, 1)
	assert.Equal(t, "doc-1", output.Documents[0].ID)
	assert.Equal(t, "notes", output.Documents[0].Name)
	assert.Equal(t, "text", output.Documents[0].Kind)
	assert.Equal(t, 2, output.Documents[0].Tokens)
}
