package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragman/internal/adapters/driven/embedding/lexical"
	"github.com/custodia-labs/ragman/internal/adapters/driven/llm/extractive"
	"github.com/custodia-labs/ragman/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragman/internal/core/domain"
)

// --- Mock implementations ---

// mockAnswerer implements driven.AnswerService for testing.
type mockAnswerer struct {
	answer      string
	generateErr error
	panicMsg    string
	lastQuery   string
	lastContext string
	lastSources []domain.SearchResult
	calls       int
}

func (m *mockAnswerer) Generate(_ context.Context, query, contextText string, sources []domain.SearchResult) (string, error) {
	m.calls++
	m.lastQuery = query
	m.lastContext = contextText
	m.lastSources = sources
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.answer, nil
}

func (m *mockAnswerer) ModelName() string {
	return "mock-answer"
}

func (m *mockAnswerer) Ping(_ context.Context) error {
	return nil
}

func (m *mockAnswerer) Close() error {
	return nil
}

// --- Tests ---

// newOfflinePipeline wires the pipeline exactly as the CLI does when no
// provider is configured: in-memory store, lexical embeddings,
// extractive answers.
func newOfflinePipeline(opts ...PipelineOption) *PipelineService {
	knowledge := NewKnowledgeService(memory.NewKnowledgeStore(), lexical.New())
	return NewPipelineService(knowledge, extractive.New(), opts...)
}

func TestPipelineService_Ask_AnswersFromKnowledgeBase(t *testing.T) {
	pipeline := newOfflinePipeline()
	ctx := context.Background()

	_, err := pipeline.knowledge.Add(ctx, "cats",
		"Cats are small domesticated animals.",
		domain.DocumentMetadata{Name: "cats.txt"})
	require.NoError(t, err)
	_, err = pipeline.knowledge.Add(ctx, "computers",
		"Computers process data quickly.",
		domain.DocumentMetadata{Name: "computers.txt"})
	require.NoError(t, err)

	resp, err := pipeline.Ask(ctx, "small pets")

	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "Cats are small domesticated animals")
	require.Len(t, resp.Sources, 1, "the unrelated document must not surface")
	assert.Equal(t, "cats", resp.Sources[0].Document.ID)
	assert.Equal(t, 71, resp.Context.Confidence)
	assert.Contains(t, resp.Context.ContextWindow, "[Source: cats.txt (relevance: 71%)]")
	assert.Equal(t, "small pets", resp.Context.Query)
	assert.GreaterOrEqual(t, resp.ProcessingTimeMs, int64(0))
}

func TestPipelineService_Ask_EmptyKnowledgeBase(t *testing.T) {
	pipeline := newOfflinePipeline()

	resp, err := pipeline.Ask(context.Background(), "anything at all")

	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "anything at all", "the answer names the unanswerable query")
	assert.Equal(t, 0, resp.Context.Confidence)
	assert.Empty(t, resp.Sources)
	assert.NotNil(t, resp.Sources)
	assert.Equal(t, "", resp.Context.ContextWindow)
}

func TestPipelineService_Ask_StopwordOnlyQuery(t *testing.T) {
	pipeline := newOfflinePipeline()
	ctx := context.Background()

	_, err := pipeline.knowledge.Add(ctx, "doc", "Some stored knowledge here.", domain.DocumentMetadata{})
	require.NoError(t, err)

	resp, err := pipeline.Ask(ctx, "the and are")

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Context.Confidence)
	assert.Empty(t, resp.Sources, "a query that preprocesses to nothing retrieves nothing")
}

func TestPipelineService_Ask_EmptyQuery(t *testing.T) {
	pipeline := newOfflinePipeline()

	resp, err := pipeline.Ask(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	assert.Nil(t, resp)
}

func TestPipelineService_Ask_RetrievalFailureDegrades(t *testing.T) {
	vec := &mockVectorizer{embedding: []float32{1}}
	knowledge := NewKnowledgeService(memory.NewKnowledgeStore(), vec)
	answerer := &mockAnswerer{answer: "unused"}
	pipeline := NewPipelineService(knowledge, answerer)
	ctx := context.Background()

	_, err := knowledge.Add(ctx, "doc", "stored content", domain.DocumentMetadata{})
	require.NoError(t, err)
	vec.vectorizeErr = errors.New("provider down")

	resp, err := pipeline.Ask(ctx, "some question")

	require.NoError(t, err, "stage failures must not surface as errors")
	assert.Contains(t, resp.Answer, "something went wrong")
	assert.Contains(t, resp.Answer, "some question")
	assert.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)
	assert.Equal(t, 0, answerer.calls, "generation is skipped when retrieval fails")
}

func TestPipelineService_Ask_GenerationFailureDegrades(t *testing.T) {
	knowledge := NewKnowledgeService(memory.NewKnowledgeStore(), lexical.New())
	answerer := &mockAnswerer{generateErr: errors.New("model offline")}
	pipeline := NewPipelineService(knowledge, answerer)
	ctx := context.Background()

	_, err := knowledge.Add(ctx, "doc", "Cats are small animals.", domain.DocumentMetadata{})
	require.NoError(t, err)

	resp, err := pipeline.Ask(ctx, "small cats")

	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "something went wrong")
	assert.Empty(t, resp.Sources)
}

func TestPipelineService_Ask_RecoversFromPanic(t *testing.T) {
	knowledge := NewKnowledgeService(memory.NewKnowledgeStore(), lexical.New())
	answerer := &mockAnswerer{panicMsg: "boom"}
	pipeline := NewPipelineService(knowledge, answerer)
	ctx := context.Background()

	_, err := knowledge.Add(ctx, "doc", "Cats are small animals.", domain.DocumentMetadata{})
	require.NoError(t, err)

	resp, err := pipeline.Ask(ctx, "small cats")

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Contains(t, resp.Answer, "something went wrong")
	assert.Contains(t, resp.Answer, "small cats")
	assert.NotNil(t, resp.Sources)
}

func TestPipelineService_Ask_PassesContextToAnswerer(t *testing.T) {
	knowledge := NewKnowledgeService(memory.NewKnowledgeStore(), lexical.New())
	answerer := &mockAnswerer{answer: "an answer"}
	pipeline := NewPipelineService(knowledge, answerer)
	ctx := context.Background()

	_, err := knowledge.Add(ctx, "cats", "Cats are small animals.", domain.DocumentMetadata{Name: "cats.txt"})
	require.NoError(t, err)

	resp, err := pipeline.Ask(ctx, "small cats")

	require.NoError(t, err)
	assert.Equal(t, "an answer", resp.Answer)
	assert.Equal(t, "small cats", answerer.lastQuery, "the answerer sees the original query")
	assert.Contains(t, answerer.lastContext, "cats.txt")
	assert.Len(t, answerer.lastSources, 1)
}

func TestPipelineService_Ask_TopKOption(t *testing.T) {
	pipeline := newOfflinePipeline(WithTopK(1))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := pipeline.knowledge.Add(ctx, id, "Cats are small animals.", domain.DocumentMetadata{})
		require.NoError(t, err)
	}

	resp, err := pipeline.Ask(ctx, "small cats")

	require.NoError(t, err)
	assert.Len(t, resp.Sources, 1)
}

func TestPipelineService_Ask_MaxContextTokensOption(t *testing.T) {
	pipeline := newOfflinePipeline(WithMaxContextTokens(60))
	ctx := context.Background()

	long := strings.Repeat("cats are small animals and ", 40)
	_, err := pipeline.knowledge.Add(ctx, "long", long, domain.DocumentMetadata{})
	require.NoError(t, err)

	resp, err := pipeline.Ask(ctx, "small cats")

	require.NoError(t, err)
	assert.LessOrEqual(t, len(strings.Fields(resp.Context.ContextWindow)), 60)
}

func TestPipelineService_Stats(t *testing.T) {
	pipeline := newOfflinePipeline()
	ctx := context.Background()

	_, err := pipeline.knowledge.Add(ctx, "doc", "one two three four", domain.DocumentMetadata{})
	require.NoError(t, err)

	stats, err := pipeline.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, "1.0.0", stats.PipelineVersion)
	assert.Len(t, stats.Features, 6)
	assert.Equal(t, 1, stats.DocumentCount)
	assert.Equal(t, 4, stats.TotalTokens)
	assert.Equal(t, lexical.Dimensions, stats.VectorDimensions)
}
