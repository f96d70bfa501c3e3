package agent

import "errors"

var (
	// ErrChatModelRequired is returned when a chat model is not provided.
	ErrChatModelRequired = errors.New("chat model required")

	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrInvalidTopK is returned for non-positive result counts.
	ErrInvalidTopK = errors.New("topK must be positive")

	// ErrMissingRecord is returned when a hit resolves to no email.
	ErrMissingRecord = errors.New("missing record")
)
