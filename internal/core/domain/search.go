package domain

// SearchResult is a single similarity hit. Results are ephemeral:
// produced per query and owned solely by the caller that issued it.
type SearchResult struct {
	// Document is the matched document.
	Document *Document

	// Similarity is the cosine similarity between the query vector
	// and the document's embedding.
	Similarity float64
}

// RAGContext carries the retrieval state assembled for one query.
type RAGContext struct {
	// Query is the original query string.
	Query string

	// Retrieved is the ranked result sequence the context was built
	// from, highest similarity first.
	Retrieved []SearchResult

	// ContextWindow is the token-bounded text handed to answer
	// generation, with one provenance header per included document.
	ContextWindow string

	// Confidence is round(mean similarity of Retrieved × 100),
	// 0 when nothing was retrieved.
	Confidence int
}

// RAGResponse is the pipeline's answer to a single query.
type RAGResponse struct {
	// Answer is the generated (or fallback) answer text.
	Answer string

	// Context is the retrieval state behind the answer.
	Context RAGContext

	// Sources are the documents the answer drew on, ranked.
	Sources []SearchResult

	// ProcessingTimeMs is the wall-clock pipeline duration.
	ProcessingTimeMs int64
}
