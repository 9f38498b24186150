// Package mcp provides an MCP (Model Context Protocol) server adapter
// for ragman. It lets AI assistants query the pipeline and manage the
// knowledge base over stdio or HTTP.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
