// Package docx provides a Normaliser implementation for Word
// documents. The document XML is read in-process and flattened to
// plain text, one line per paragraph.
package docx

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/nguyenthenguyen/docx"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// mimeDocx is the registered type for .docx files.
const mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Word (.docx) documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{mimeDocx}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, above the plain text fallback
}

// Normalise extracts the paragraph text of a Word document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := docx.ReadDocxFromMemory(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse docx: %v", domain.ErrInvalidInput, err)
	}
	defer reader.Close()

	content := wordMLToText(reader.Editable().GetContent())

	doc := domain.Document{
		ID:       documentID(raw),
		SourceID: raw.SourceID,
		Content:  content,
		Metadata: domain.DocumentMetadata{
			Name:       documentName(raw),
			SourceKind: raw.SourceKind,
			SizeBytes:  int64(len(raw.Content)),
		},
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

var (
	paragraphEnds = regexp.MustCompile(`</w:p>`)
	xmlTags       = regexp.MustCompile(`<[^>]+>`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// wordMLToText flattens WordprocessingML to plain text: paragraph
// closers become newlines, every other tag disappears.
func wordMLToText(content string) string {
	text := paragraphEnds.ReplaceAllString(content, "\n")
	text = xmlTags.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// documentID keeps the connector-assigned identity so re-ingesting the
// same location replaces the stored document.
func documentID(raw *domain.RawDocument) string {
	if raw.ID != "" {
		return raw.ID
	}
	return uuid.New().String()
}

// documentName prefers the connector-supplied name over one derived
// from the URI.
func documentName(raw *domain.RawDocument) string {
	if raw.Name != "" {
		return raw.Name
	}
	filename := filepath.Base(raw.URI)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
