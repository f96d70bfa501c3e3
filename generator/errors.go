package generator

import "errors"

var (
	// ErrChatModelRequired is returned when a chat model is not provided.
	ErrChatModelRequired = errors.New("chat model required")

	// ErrSinkRequired is returned when a record sink is not provided.
	ErrSinkRequired = errors.New("record sink required")

	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid generator config")

	// ErrEmptyReply is returned when the model answers with no content.
	ErrEmptyReply = errors.New("empty reply from model")
)
