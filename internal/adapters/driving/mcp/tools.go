package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the knowledge base"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer           string         `json:"answer"`
	Confidence       int            `json:"confidence"`
	Sources          []SourceOutput `json:"sources,omitempty"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
}

// SourceOutput identifies a document an answer drew on.
type SourceOutput struct {
	DocumentID string  `json:"document_id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find documents"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
	Content    string  `json:"content,omitempty"`
}

// AddDocumentInput is the input schema for the add_document tool.
type AddDocumentInput struct {
	Name    string `json:"name,omitempty" jsonschema:"document name (derived from the content when empty)"`
	Content string `json:"content" jsonschema:"the document text to store"`
}

// AddDocumentOutput is the output schema for the add_document tool.
type AddDocumentOutput struct {
	DocumentID string `json:"document_id"`
	Name       string `json:"name"`
	Tokens     int    `json:"tokens"`
}

// RemoveDocumentInput is the input schema for the remove_document tool.
type RemoveDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"ID of the document to remove"`
}

// RemoveDocumentOutput is the output schema for the remove_document tool.
type RemoveDocumentOutput struct {
	Removed bool `json:"removed"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentInfo `json:"documents"`
	Count     int            `json:"count"`
}

// DocumentInfo summarises a stored document.
type DocumentInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Tokens int    `json:"tokens"`
}

// StatsInput is the input schema for the stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	DocumentCount       int      `json:"document_count"`
	TotalTokens         int      `json:"total_tokens"`
	AverageTokensPerDoc int      `json:"average_tokens_per_doc"`
	VectorDimensions    int      `json:"vector_dimensions"`
	PipelineVersion     string   `json:"pipeline_version"`
	Features            []string `json:"features,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
// Tools that need an optional port are only registered when it is set.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question and get an answer grounded in the knowledge base",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the knowledge base by similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Knowledge base and pipeline statistics",
	}, s.handleStats)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "add_document",
			Description: "Store a text document in the knowledge base",
		}, s.handleAddDocument)
	}

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "remove_document",
			Description: "Remove a document from the knowledge base",
		}, s.handleRemoveDocument)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List all stored documents",
		}, s.handleListDocuments)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	response, err := s.ports.Pipeline.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:           response.Answer,
		Confidence:       response.Context.Confidence,
		Sources:          make([]SourceOutput, len(response.Sources)),
		ProcessingTimeMs: response.ProcessingTimeMs,
	}
	for i := range response.Sources {
		output.Sources[i] = SourceOutput{
			DocumentID: response.Sources[i].Document.ID,
			Name:       response.Sources[i].Document.DisplayName(),
			Similarity: response.Sources[i].Similarity,
		}
	}

	return nil, output, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	results, err := s.ports.Search.Search(ctx, input.Query, topK)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].Document.ID,
			Name:       results[i].Document.DisplayName(),
			Similarity: results[i].Similarity,
			Content:    results[i].Document.Content,
		}
	}

	return nil, output, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Pipeline.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		DocumentCount:       stats.DocumentCount,
		TotalTokens:         stats.TotalTokens,
		AverageTokensPerDoc: stats.AverageTokensPerDoc,
		VectorDimensions:    stats.VectorDimensions,
		PipelineVersion:     stats.PipelineVersion,
		Features:            stats.Features,
	}, nil
}

// handleAddDocument handles the add_document tool invocation.
func (s *Server) handleAddDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDocumentInput,
) (*mcp.CallToolResult, AddDocumentOutput, error) {
	doc, err := s.ports.Ingest.IngestText(ctx, input.Name, input.Content)
	if err != nil {
		return nil, AddDocumentOutput{}, err
	}

	return nil, AddDocumentOutput{
		DocumentID: doc.ID,
		Name:       doc.DisplayName(),
		Tokens:     doc.TokenCount(),
	}, nil
}

// handleRemoveDocument handles the remove_document tool invocation.
func (s *Server) handleRemoveDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveDocumentInput,
) (*mcp.CallToolResult, RemoveDocumentOutput, error) {
	removed, err := s.ports.Document.Remove(ctx, input.DocumentID)
	if err != nil {
		return nil, RemoveDocumentOutput{}, err
	}

	return nil, RemoveDocumentOutput{Removed: removed}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentInfo, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentInfo{
			ID:     docs[i].ID,
			Name:   docs[i].DisplayName(),
			Kind:   docs[i].Metadata.SourceKind.String(),
			Tokens: docs[i].TokenCount(),
		}
	}

	return nil, output, nil
}
