package domain

// KnowledgeBaseStats summarises the state of the knowledge store.
type KnowledgeBaseStats struct {
	// DocumentCount is the number of stored documents.
	DocumentCount int

	// TotalTokens is the whitespace-delimited word count summed
	// across all stored documents.
	TotalTokens int

	// AverageTokensPerDoc is TotalTokens/DocumentCount rounded to the
	// nearest integer, 0 when the store is empty.
	AverageTokensPerDoc int

	// VectorDimensions is the embedding length observed on the first
	// stored document, or the lexical default when empty.
	VectorDimensions int
}

// PipelineStats extends knowledge base stats with pipeline metadata.
// The feature list is purely descriptive; nothing branches on it.
type PipelineStats struct {
	KnowledgeBaseStats

	// PipelineVersion is the fixed pipeline version tag.
	PipelineVersion string

	// Features names the enabled pipeline capabilities.
	Features []string
}
