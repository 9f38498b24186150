package services

import (
	"regexp"
	"strings"
)

// minQueryTokenLength is the shortest token Preprocess keeps.
// One and two letter words carry almost no retrieval signal.
const minQueryTokenLength = 3

// punctuation matches characters that are neither word characters nor
// whitespace. Preprocess replaces them with spaces so "cat's" and
// "cats" tokenize comparably.
var punctuation = regexp.MustCompile(`[^\w\s]`)

// defaultStopwords are common function words stripped from queries
// before embedding. Static configuration data, swappable per
// deployment via WithStopwords.
var defaultStopwords = map[string]struct{}{
	"the": {}, "and": {}, "are": {}, "was": {}, "were": {},
	"been": {}, "have": {}, "has": {}, "had": {}, "does": {},
	"did": {}, "but": {}, "for": {}, "with": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "from": {}, "into": {},
	"about": {}, "after": {}, "before": {}, "then": {}, "than": {},
	"they": {}, "them": {}, "their": {}, "there": {}, "here": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "will": {},
}

// defaultSynonyms maps query tokens to substitutable alternatives.
// Static configuration data, swappable per deployment via
// WithSynonyms.
var defaultSynonyms = map[string][]string{
	"data":      {"information", "content", "facts"},
	"search":    {"find", "lookup", "query"},
	"document":  {"file", "record", "text"},
	"create":    {"make", "build", "generate"},
	"delete":    {"remove", "erase", "drop"},
	"error":     {"failure", "fault", "problem"},
	"fast":      {"quick", "rapid", "speedy"},
	"important": {"critical", "essential", "key"},
	"analysis":  {"examination", "study", "review"},
}

// QueryProcessor normalises user queries ahead of retrieval and can
// expand them into synonym variants.
type QueryProcessor struct {
	stopwords map[string]struct{}
	synonyms  map[string][]string
}

// QueryProcessorOption configures a QueryProcessor.
type QueryProcessorOption func(*QueryProcessor)

// WithStopwords replaces the default stopword set.
func WithStopwords(words []string) QueryProcessorOption {
	return func(q *QueryProcessor) {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[strings.ToLower(w)] = struct{}{}
		}
		q.stopwords = set
	}
}

// WithSynonyms replaces the default synonym table.
func WithSynonyms(table map[string][]string) QueryProcessorOption {
	return func(q *QueryProcessor) {
		q.synonyms = table
	}
}

// NewQueryProcessor creates a query processor with the default
// stopword and synonym tables.
func NewQueryProcessor(opts ...QueryProcessorOption) *QueryProcessor {
	q := &QueryProcessor{
		stopwords: defaultStopwords,
		synonyms:  defaultSynonyms,
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Preprocess lowercases the query, replaces punctuation with spaces,
// and drops stopwords and tokens shorter than three characters.
// The result is the surviving tokens rejoined with single spaces.
func (q *QueryProcessor) Preprocess(query string) string {
	lowered := strings.ToLower(query)
	cleaned := punctuation.ReplaceAllString(lowered, " ")

	tokens := strings.Fields(cleaned)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) < minQueryTokenLength {
			continue
		}
		if _, stop := q.stopwords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}

	return strings.Join(kept, " ")
}

// Expand returns the preprocessed query followed by variants with one
// token at a time substituted by each of its synonyms. Variants are
// deduplicated by exact string match and ordered base first, then by
// token position, then by synonym table order.
//
// Ask embeds the preprocessed query only; Expand is for callers that
// want to fan a query out into alternatives themselves.
func (q *QueryProcessor) Expand(query string) []string {
	base := q.Preprocess(query)
	if base == "" {
		return []string{base}
	}

	variants := []string{base}
	seen := map[string]struct{}{base: {}}

	tokens := strings.Fields(base)
	for i, tok := range tokens {
		syns, ok := q.synonyms[tok]
		if !ok {
			continue
		}
		for _, syn := range syns {
			substituted := make([]string, len(tokens))
			copy(substituted, tokens)
			substituted[i] = syn

			variant := strings.Join(substituted, " ")
			if _, dup := seen[variant]; dup {
				continue
			}
			seen[variant] = struct{}{}
			variants = append(variants, variant)
		}
	}

	return variants
}
