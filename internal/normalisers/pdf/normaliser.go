// Package pdf provides a Normaliser implementation for PDF documents.
// Extraction is in-process: pages are read with ledongthuc/pdf and
// their plain text concatenated. Scanned PDFs without a text layer
// yield empty content rather than an error.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, above the plain text fallback
}

// Normalise extracts the text layer of a PDF document, page by page.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content, err := extractText(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: parse pdf: %v", domain.ErrInvalidInput, err)
	}

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

// extractText concatenates the plain text of every page. Pages whose
// text cannot be decoded are skipped; a malformed file is an error.
func extractText(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if sb.Len() > 0 && text != "" {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}

	return strings.TrimSpace(sb.String()), nil
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
