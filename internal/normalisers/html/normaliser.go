// Package html provides a Normaliser implementation for HTML
// documents. Readability extraction strips navigation, ads, and
// boilerplate down to the article text; pages it cannot parse fall
// back to a plain tag-stripping pass.
package html

import (
	"bytes"
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/google/uuid"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, above the plain text fallback
}

// Normalise extracts the readable text of an HTML document. The
// page title becomes the document name when the connector supplied
// none.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content, title := extract(raw.Content, raw.URI)

	doc := domain.Document{
		ID:       documentID(raw),
		SourceID: raw.SourceID,
		Content:  content,
		Metadata: domain.DocumentMetadata{
			Name:       documentName(raw, title),
			SourceKind: raw.SourceKind,
			SizeBytes:  int64(len(raw.Content)),
		},
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// extract returns the readable text and page title. Readability first;
// when it fails or finds nothing, a goquery pass over the body with
// script and style removed.
func extract(content []byte, uri string) (text, title string) {
	pageURL, _ := url.Parse(uri)

	article, err := readability.FromReader(bytes.NewReader(content), pageURL)
	if err == nil {
		text = strings.TrimSpace(article.TextContent)
		title = strings.TrimSpace(article.Title)
	}
	if text != "" {
		return text, title
	}

	return stripTags(content, title)
}

// stripTags is the fallback extraction: whole-body text with script,
// style, and noscript elements removed.
func stripTags(content []byte, title string) (string, string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", title
	}

	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	doc.Find("script, style, noscript").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return strings.TrimSpace(doc.Text()), title
	}
	return strings.TrimSpace(body.Text()), title
}

// documentID keeps the connector-assigned identity so re-ingesting the
// same location replaces the stored document.
func documentID(raw *domain.RawDocument) string {
	if raw.ID != "" {
		return raw.ID
	}
	return uuid.New().String()
}

// documentName prefers the page title, then the connector name, then a
// name derived from the URI.
func documentName(raw *domain.RawDocument, title string) string {
	if title != "" {
		return title
	}
	if raw.Name != "" {
		return raw.Name
	}
	return nameFromURI(raw.URI)
}

// nameFromURI derives a readable name from the document location.
func nameFromURI(uri string) string {
	if parsed, err := url.Parse(uri); err == nil && parsed.Host != "" {
		if parsed.Path == "" || parsed.Path == "/" {
			return parsed.Host
		}
		return parsed.Host + parsed.Path
	}
	filename := filepath.Base(uri)
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext)
}
