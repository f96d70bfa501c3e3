package ai

import "context"

// ChatModel is the single entry point for LLM completions. The decision,
// reformulation, answer, and generation steps all go through it.
// Implementations must be safe for concurrent use.
type ChatModel interface {
	// Chat returns the model's reply to req. When req.Format is set the reply
	// is expected to be a JSON document conforming to it, but callers must
	// still validate it. Transport and service failures are returned as errors.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// Embedder maps text to vectors for similarity search over the email corpus.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText embeds one string: a search query or one email's subject and body.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds several strings in one call. The result is index-aligned
	// with texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AIProvider owns a ChatModel and an Embedder configured from one Config.
type AIProvider interface {
	ChatModel() ChatModel
	Embedder() Embedder

	// Close releases the provider. Its services must not be used afterwards.
	Close() error
}
