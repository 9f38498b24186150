// Package markdown provides a Normaliser implementation for Markdown
// documents. Content is rendered through goldmark and flattened to
// plain text, so emphasis and link syntax disappear while code block
// text stays searchable.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct {
	converter goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{
		converter: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, above the plain text fallback
}

// Normalise converts a markdown document to a normalised document.
// The Content field contains the text with markdown formatting
// removed.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rawContent := string(raw.Content)

	var rendered bytes.Buffer
	if err := n.converter.Convert(raw.Content, &rendered); err != nil {
		return nil, fmt.Errorf("%w: convert markdown: %v", domain.ErrInvalidInput, err)
	}

	doc := domain.Document{
		ID:       documentID(raw),
		SourceID: raw.SourceID,
		Content:  htmlToText(rendered.String()),
		Metadata: domain.DocumentMetadata{
			Name:       documentName(rawContent, raw),
			SourceKind: raw.SourceKind,
			SizeBytes:  int64(len(raw.Content)),
		},
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// Block-level closers get their own newline; everything else relies on
// the newlines goldmark already emits between elements.
var (
	blockEnds = regexp.MustCompile(`(?i)</(p|h[1-6]|blockquote|pre|table)>`)
	breakTags = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	allTags   = regexp.MustCompile(`<[^>]+>`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// htmlToText flattens rendered HTML to plain text.
func htmlToText(rendered string) string {
	text := blockEnds.ReplaceAllString(rendered, "\n")
	text = breakTags.ReplaceAllString(text, "\n")
	text = allTags.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// documentName prefers the first H1 heading, then the connector name,
// then a name derived from the URI.
func documentName(content string, raw *domain.RawDocument) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	if raw.Name != "" {
		return raw.Name
	}
	return nameFromURI(raw.URI)
}

// documentID keeps the connector-assigned identity so re-ingesting the
// same location replaces the stored document.
func documentID(raw *domain.RawDocument) string {
	if raw.ID != "" {
		return raw.ID
	}
	return uuid.New().String()
}

// nameFromURI derives a readable name from the document location.
func nameFromURI(uri string) string {
	filename := filepath.Base(uri)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
