package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a blank query string.
	ErrEmptyQuery = errors.New("empty query")

	// ErrUnsupportedType indicates an unknown source or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnsupportedMIMEType indicates no normaliser handles the content type.
	ErrUnsupportedMIMEType = errors.New("unsupported MIME type")

	// ErrVectorizerUnavailable indicates the embedding provider failed
	// or is not configured. Callers fall back to the lexical vectorizer.
	ErrVectorizerUnavailable = errors.New("vectorizer unavailable")

	// ErrAnswererUnavailable indicates the completion provider failed
	// or is not configured. Callers fall back to extractive answers.
	ErrAnswererUnavailable = errors.New("answer generator unavailable")

	// ErrDimensionMismatch indicates two vectors of different lengths
	// were compared. Similarity over such pairs is defined as zero.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrSourceValidation indicates a source is misconfigured.
	ErrSourceValidation = errors.New("source validation failed")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")

	// ErrNotImplemented indicates an operation the connector does not
	// support, such as watching a website source.
	ErrNotImplemented = errors.New("not implemented")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
