// Package lexical provides a deterministic, offline vectorizer based
// on term frequencies over a fixed vocabulary. It is the fallback when
// no remote embedding provider is reachable: the same text always
// produces the same vector, with no network access.
package lexical

import (
	"context"
	"strings"
	"unicode"

	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure Vectorizer implements the interface.
var _ driven.Vectorizer = (*Vectorizer)(nil)

// Dimensions is the fixed vector length this vectorizer produces.
const Dimensions = 100

// ModelName identifies the vectorization method.
const ModelName = "lexical-tf"

// vocabulary is the ordered reference term list: one vector dimension
// per term. Common function words anchor general prose; the rest are
// terms frequent in the notes, articles, and documentation this tool
// typically indexes. Order is part of the vector format and must not
// change between releases.
var vocabulary = []string{
	// Function words.
	"the", "and", "are", "was", "were", "been", "have", "has",
	"had", "does", "did", "but", "for", "with", "this", "that",
	"these", "those", "from", "into", "about", "after", "before",
	"then", "than", "they", "them", "their", "there", "here",
	"what", "when", "where", "which", "will", "would", "could",
	"should", "because", "while",

	// Domain terms.
	"data", "information", "content", "document", "text", "file",
	"model", "embedding", "vector", "search", "query", "index",
	"token", "word", "language", "knowledge", "question", "answer",
	"result", "source", "page", "website", "article", "note",
	"record", "system", "process", "pipeline", "context", "memory",
	"store", "user", "time", "name", "type", "value", "number",
	"code", "test", "error", "small", "large", "fast", "slow",
	"new", "old", "good", "work", "make", "find", "need", "help",
	"show", "list", "read", "write", "add", "remove", "change",
	"part",
}

// Vectorizer maps text to term-frequency vectors over the fixed
// vocabulary. It is stateless and never fails.
type Vectorizer struct{}

// New creates a lexical vectorizer.
func New() *Vectorizer {
	return &Vectorizer{}
}

// Vectorize returns a vector where each dimension is the frequency of
// the corresponding vocabulary term divided by the total token count
// of the text. Text with no tokens yields the zero vector.
func (v *Vectorizer) Vectorize(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, Dimensions)

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return vector, nil
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	total := float32(len(tokens))
	for i, term := range vocabulary {
		if i >= Dimensions {
			break
		}
		if n := counts[term]; n > 0 {
			vector[i] = float32(n) / total
		}
	}

	return vector, nil
}

// Dimensions returns the vector length this vectorizer produces.
func (v *Vectorizer) Dimensions() int {
	return Dimensions
}

// ModelName returns the vectorization method identifier.
func (v *Vectorizer) ModelName() string {
	return ModelName
}

// Ping always succeeds; there is nothing remote to reach.
func (v *Vectorizer) Ping(_ context.Context) error {
	return nil
}

// Close releases resources (none held).
func (v *Vectorizer) Close() error {
	return nil
}

// tokenize splits text into lowercase alphanumeric runs.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
