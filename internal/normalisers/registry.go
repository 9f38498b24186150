package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to normalisers by MIME type. When
// several normalisers claim the same type, the highest priority wins.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, normaliser)
}

// Normalise transforms a raw document using the best matching
// normaliser for its MIME type.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	normaliser := r.lookup(canonicalMIME(raw.MIMEType))
	if normaliser == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMIMEType, raw.MIMEType)
	}

	return normaliser.Normalise(ctx, raw)
}

// SupportedMIMETypes returns the union of all registered MIME types,
// sorted and deduplicated.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var types []string
	for _, normaliser := range r.normalisers {
		for _, mimeType := range normaliser.SupportedMIMETypes() {
			if seen[mimeType] {
				continue
			}
			seen[mimeType] = true
			types = append(types, mimeType)
		}
	}

	sort.Strings(types)
	return types
}

// lookup finds the highest-priority normaliser for a canonical MIME
// type. Text subtypes nobody claims fall back to the plain text
// handler.
func (r *Registry) lookup(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if normaliser := r.bestFor(mimeType); normaliser != nil {
		return normaliser
	}
	if strings.HasPrefix(mimeType, "text/") && mimeType != "text/plain" {
		return r.bestFor("text/plain")
	}
	return nil
}

// bestFor returns the highest-priority normaliser claiming mimeType.
// The caller holds the read lock.
func (r *Registry) bestFor(mimeType string) driven.Normaliser {
	var best driven.Normaliser
	for _, normaliser := range r.normalisers {
		for _, supported := range normaliser.SupportedMIMETypes() {
			if supported != mimeType {
				continue
			}
			if best == nil || normaliser.Priority() > best.Priority() {
				best = normaliser
			}
			break
		}
	}
	return best
}

// canonicalMIME lowercases a MIME type and strips parameters such as
// charset. An empty type is treated as plain text.
func canonicalMIME(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType == "" {
		return "text/plain"
	}
	return mimeType
}
