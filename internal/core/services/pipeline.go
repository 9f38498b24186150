package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
	"github.com/custodia-labs/ragman/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// pipelineVersion tags stats output. Bumped when retrieval or
// generation behaviour changes.
const pipelineVersion = "1.0.0"

// pipelineFeatures describes this build's capabilities for the stats
// surface. Purely descriptive; nothing branches on it.
var pipelineFeatures = []string{
	"provider embeddings with lexical fallback",
	"cosine similarity ranking",
	"token-budgeted context assembly",
	"confidence scoring",
	"query preprocessing",
	"source attribution",
}

// PipelineService runs the retrieve, assemble, generate flow. It keeps
// no state between queries; every Ask builds its response from
// scratch.
type PipelineService struct {
	knowledge *KnowledgeService
	answerer  driven.AnswerService
	queries   *QueryProcessor
	contexts  *ContextBuilder
	topK      int
	maxTokens int
}

// PipelineOption configures a PipelineService.
type PipelineOption func(*PipelineService)

// WithTopK sets how many documents a query retrieves.
func WithTopK(topK int) PipelineOption {
	return func(p *PipelineService) {
		if topK > 0 {
			p.topK = topK
		}
	}
}

// WithMaxContextTokens sets the context window token budget.
func WithMaxContextTokens(maxTokens int) PipelineOption {
	return func(p *PipelineService) {
		if maxTokens > 0 {
			p.maxTokens = maxTokens
		}
	}
}

// WithQueryProcessor replaces the default query processor.
func WithQueryProcessor(queries *QueryProcessor) PipelineOption {
	return func(p *PipelineService) {
		if queries != nil {
			p.queries = queries
		}
	}
}

// NewPipelineService creates a pipeline over the given knowledge
// service and answer provider.
func NewPipelineService(knowledge *KnowledgeService, answerer driven.AnswerService, opts ...PipelineOption) *PipelineService {
	p := &PipelineService{
		knowledge: knowledge,
		answerer:  answerer,
		queries:   NewQueryProcessor(),
		contexts:  NewContextBuilder(),
		topK:      domain.DefaultTopK,
		maxTokens: domain.DefaultMaxContextTokens,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Ask retrieves relevant documents, assembles a bounded context, and
// generates an answer. Stage failures and panics degrade to a
// well-formed response with an error answer; Ask never propagates
// them.
func (p *PipelineService) Ask(ctx context.Context, query string) (resp *domain.RAGResponse, err error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("ask: %w", domain.ErrEmptyQuery)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Pipeline panic answering %q: %v", query, r)
			resp = p.failureResponse(query, start)
			err = nil
		}
	}()

	logger.Section("Answer Pipeline")
	logger.Info("Query: %q", query)

	processed := p.queries.Preprocess(query)
	logger.Debug("Preprocessed query: %q", processed)

	var results []domain.SearchResult
	if processed != "" {
		results, err = p.knowledge.Search(ctx, processed, p.topK)
		if err != nil {
			logger.Error("Retrieval failed: %v", err)
			return p.failureResponse(query, start), nil
		}
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	contextWindow := p.contexts.Build(results, query, p.maxTokens)
	confidence := confidenceScore(results)
	logger.Debug("Assembled %d context tokens from %d sources, confidence %d%%",
		len(strings.Fields(contextWindow)), len(results), confidence)

	answer, err := p.answerer.Generate(ctx, query, contextWindow, results)
	if err != nil {
		logger.Error("Answer generation failed: %v", err)
		return p.failureResponse(query, start), nil
	}

	elapsed := time.Since(start).Milliseconds()
	logger.Info("Answered in %dms", elapsed)

	return &domain.RAGResponse{
		Answer: answer,
		Context: domain.RAGContext{
			Query:         query,
			Retrieved:     results,
			ContextWindow: contextWindow,
			Confidence:    confidence,
		},
		Sources:          results,
		ProcessingTimeMs: elapsed,
	}, nil
}

// Stats merges knowledge base statistics with the pipeline version and
// feature list.
func (p *PipelineService) Stats(ctx context.Context) (*domain.PipelineStats, error) {
	kb, err := p.knowledge.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline stats: %w", err)
	}

	features := make([]string, len(pipelineFeatures))
	copy(features, pipelineFeatures)

	return &domain.PipelineStats{
		KnowledgeBaseStats: kb,
		PipelineVersion:    pipelineVersion,
		Features:           features,
	}, nil
}

// failureResponse is the degraded answer returned when a pipeline
// stage fails or panics. The caller still receives a well-formed
// response with the time spent up to the failure.
func (p *PipelineService) failureResponse(query string, start time.Time) *domain.RAGResponse {
	return &domain.RAGResponse{
		Answer: fmt.Sprintf("Sorry, something went wrong while answering %q. Please try again.", query),
		Context: domain.RAGContext{
			Query:     query,
			Retrieved: []domain.SearchResult{},
		},
		Sources:          []domain.SearchResult{},
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}

// confidenceScore converts the mean similarity of the retrieved
// results into an integer percentage. Zero when nothing was retrieved.
func confidenceScore(results []domain.SearchResult) int {
	if len(results) == 0 {
		return 0
	}

	var sum float64
	for _, r := range results {
		sum += r.Similarity
	}
	return int(math.Round(sum / float64(len(results)) * 100))
}
