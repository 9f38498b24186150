// Package failover provides a vectorizer that tries a remote provider
// first and falls back to a deterministic local vectorizer on any
// failure. Both paths implement the same port, so each is testable on
// its own.
package failover

import (
	"context"
	"errors"

	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/logger"
)

// Ensure Vectorizer implements the interface.
var _ driven.Vectorizer = (*Vectorizer)(nil)

// Vectorizer chains a primary vectorizer with a local fallback.
// A nil primary routes every call straight to the fallback.
type Vectorizer struct {
	primary  driven.Vectorizer
	fallback driven.Vectorizer
}

// New creates a failover vectorizer. The fallback is required and must
// not fail; the primary may be nil when no remote provider is
// configured.
func New(primary, fallback driven.Vectorizer) *Vectorizer {
	return &Vectorizer{
		primary:  primary,
		fallback: fallback,
	}
}

// Vectorize returns the primary provider's embedding, or the
// fallback's when the primary is missing or fails. The failure is
// logged, not surfaced: the caller always gets a vector.
func (v *Vectorizer) Vectorize(ctx context.Context, text string) ([]float32, error) {
	if v.primary == nil {
		return v.fallback.Vectorize(ctx, text)
	}

	embedding, err := v.primary.Vectorize(ctx, text)
	if err == nil {
		return embedding, nil
	}

	logger.Warn("Embedding provider %s failed, using %s: %v", v.primary.ModelName(), v.fallback.ModelName(), err)
	return v.fallback.Vectorize(ctx, text)
}

// Dimensions returns the primary provider's vector length when one is
// configured, the fallback's otherwise. When the primary flaps, stored
// vectors can mix dimensions; reindexing restores uniformity.
func (v *Vectorizer) Dimensions() int {
	if v.primary != nil {
		return v.primary.Dimensions()
	}
	return v.fallback.Dimensions()
}

// ModelName returns the active provider's model identifier.
func (v *Vectorizer) ModelName() string {
	if v.primary != nil {
		return v.primary.ModelName()
	}
	return v.fallback.ModelName()
}

// Ping checks the primary provider when one is configured.
func (v *Vectorizer) Ping(ctx context.Context) error {
	if v.primary != nil {
		return v.primary.Ping(ctx)
	}
	return v.fallback.Ping(ctx)
}

// Close releases both providers' resources.
func (v *Vectorizer) Close() error {
	var errs []error
	if v.primary != nil {
		errs = append(errs, v.primary.Close())
	}
	errs = append(errs, v.fallback.Close())
	return errors.Join(errs...)
}
