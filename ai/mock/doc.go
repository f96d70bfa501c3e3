// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.ChatModel, ai.Embedder,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// an LLM server and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Scripted replies, served in order
//	chat := mock.NewMockChatModel().WithReplies("YES", "acme proposal last week", "Acme proposed...")
//
//	// Custom behavior injection
//	chat := mock.NewMockChatModel().
//	    WithChatFunc(func(ctx context.Context, req *ai.ChatRequest) (*ai.ChatResponse, error) {
//	        return nil, errors.New("connection refused")
//	    })
//
//	// Inspect what was sent
//	reqs := chat.Requests()
//
// # Default Behavior
//
//   - MockChatModel: Echoes the last message once scripted replies run out
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockProvider: Aggregates mock chat model and embedder
package mock
