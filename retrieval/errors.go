package retrieval

import "errors"

var (
	// ErrIndexNotLoaded is returned by Search before LoadIndex has succeeded.
	ErrIndexNotLoaded = errors.New("index not loaded")

	// ErrRepositoryRequired is returned when an email repository is not provided.
	ErrRepositoryRequired = errors.New("email repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidTopK is returned for non-positive result counts.
	ErrInvalidTopK = errors.New("topK must be positive")

	// ErrEmptyQuery is returned when the search query is blank.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrEmbeddingFailed is returned when no pending email could be embedded.
	ErrEmbeddingFailed = errors.New("embedding failed")
)
