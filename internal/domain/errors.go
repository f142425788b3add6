package domain

import "errors"

var (
	// ErrMissingSource signals a named table or file that does not exist.
	// Adapters degrade to an empty envelope with a note instead of
	// surfacing it to callers.
	ErrMissingSource = errors.New("source table not found")
	// ErrTaggingFailed signals a record the enrichment service could not
	// tag within the retry budget.
	ErrTaggingFailed = errors.New("tagging failed")
	// ErrIndexUnavailable signals an absent or unreachable similarity index.
	ErrIndexUnavailable = errors.New("similarity index unavailable")
	// ErrInvalidMode signals an unsupported answering mode.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrTaggingProviderError signals a tagging provider failure.
	ErrTaggingProviderError = errors.New("tagging provider error")
)
