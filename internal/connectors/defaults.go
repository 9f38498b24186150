package connectors

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/ragman/internal/connectors/filesystem"
	"github.com/custodia-labs/ragman/internal/connectors/website"
	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// NewDefaultFactory returns a factory with every built-in source type
// registered.
func NewDefaultFactory() *Factory {
	f := NewFactory()
	f.Register(domain.SourceTypeFilesystem, buildFilesystem)
	f.Register(domain.SourceTypeWebsite, buildWebsite)
	return f
}

// buildFilesystem creates a filesystem connector from source config.
// Config keys: "path" (required), "extensions" (optional, comma
// separated allowlist).
func buildFilesystem(source domain.Source) (driven.Connector, error) {
	path := source.Config["path"]
	if path == "" {
		return nil, fmt.Errorf("%w: filesystem source requires config key %q", domain.ErrInvalidInput, "path")
	}

	var extensions []string
	if raw := source.Config["extensions"]; raw != "" {
		extensions = strings.Split(raw, ",")
	}

	return filesystem.New(source.ID, path, extensions), nil
}

// buildWebsite creates a website connector from source config.
// Config keys: "url" (required).
func buildWebsite(source domain.Source) (driven.Connector, error) {
	pageURL := source.Config["url"]
	if pageURL == "" {
		return nil, fmt.Errorf("%w: website source requires config key %q", domain.ErrInvalidInput, "url")
	}

	return website.New(source.ID, website.Config{URL: pageURL}), nil
}
