package normalisers

import (
	"github.com/custodia-labs/ragman/internal/normalisers/docx"
	"github.com/custodia-labs/ragman/internal/normalisers/eml"
	"github.com/custodia-labs/ragman/internal/normalisers/html"
	"github.com/custodia-labs/ragman/internal/normalisers/markdown"
	"github.com/custodia-labs/ragman/internal/normalisers/pdf"
	"github.com/custodia-labs/ragman/internal/normalisers/plaintext"
)

// NewDefaultRegistry creates a registry with every built-in normaliser
// registered: plaintext as the fallback, plus markdown, HTML, PDF,
// DOCX, and email handlers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(eml.New())
	return r
}
