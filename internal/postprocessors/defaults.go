package postprocessors

import (
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/postprocessors/cleaner"
	"github.com/custodia-labs/ragman/internal/postprocessors/truncator"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("cleaner", buildCleaner)
	r.Register("truncator", buildTruncator)
}

// DefaultPipeline builds the standard ingestion pipeline: whitespace
// cleanup followed by a length cap.
func DefaultPipeline() *Pipeline {
	return NewPipeline(cleaner.New(), truncator.New())
}

// buildCleaner creates a cleaner processor from generic config.
// Supported config keys:
//   - max_blank_lines (int): Consecutive blank lines to keep (default: 1)
func buildCleaner(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []cleaner.Option

	if cfg != nil {
		if n, ok := intFromConfig(cfg, "max_blank_lines"); ok {
			opts = append(opts, cleaner.WithMaxBlankLines(n))
		}
	}

	return cleaner.New(opts...), nil
}

// buildTruncator creates a truncator processor from generic config.
// Supported config keys:
//   - max_bytes (int): Content ceiling in bytes (default: 524288)
func buildTruncator(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []truncator.Option

	if cfg != nil {
		if n, ok := intFromConfig(cfg, "max_bytes"); ok && n > 0 {
			opts = append(opts, truncator.WithMaxBytes(n))
		}
	}

	return truncator.New(opts...), nil
}

// intFromConfig safely extracts an int from a generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func intFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
