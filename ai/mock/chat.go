package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/poiesic/mailroom/ai"
)

// ErrNoScriptedReply is returned when a scripted reply queue has been drained
// and strict mode is enabled.
var ErrNoScriptedReply = errors.New("mock chat model: no scripted reply left")

// MockChatModel is a test double for ai.ChatModel.
// Replies are served from a FIFO queue; ChatFunc, when set, takes precedence.
// It is safe for concurrent use and records every request it receives.
type MockChatModel struct {
	// ChatFunc is called by Chat if set.
	// If nil, scripted replies are used.
	ChatFunc func(ctx context.Context, req *ai.ChatRequest) (*ai.ChatResponse, error)

	// Strict makes Chat fail with ErrNoScriptedReply once the queue is empty.
	// Otherwise the last message's content is echoed back.
	Strict bool

	mu       sync.Mutex
	replies  []string
	requests []ai.ChatRequest
}

// NewMockChatModel creates a mock chat model with echo behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

// WithReplies appends scripted replies, served in order.
func (m *MockChatModel) WithReplies(replies ...string) *MockChatModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
	return m
}

// WithChatFunc installs custom behavior.
func (m *MockChatModel) WithChatFunc(fn func(ctx context.Context, req *ai.ChatRequest) (*ai.ChatResponse, error)) *MockChatModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = fn
	return m
}

// Chat records the request and returns the next reply.
func (m *MockChatModel) Chat(ctx context.Context, req *ai.ChatRequest) (*ai.ChatResponse, error) {
	m.mu.Lock()
	if req != nil {
		recorded := *req
		recorded.Messages = append([]ai.Message(nil), req.Messages...)
		m.requests = append(m.requests, recorded)
	}
	fn := m.ChatFunc
	if fn != nil {
		m.mu.Unlock()
		return fn(ctx, req)
	}
	defer m.mu.Unlock()

	if len(m.replies) > 0 {
		reply := m.replies[0]
		m.replies = m.replies[1:]
		return &ai.ChatResponse{Content: reply}, nil
	}
	if m.Strict {
		return nil, ErrNoScriptedReply
	}

	// Default: echo the last message
	if req == nil || len(req.Messages) == 0 {
		return &ai.ChatResponse{}, nil
	}
	return &ai.ChatResponse{Content: req.Messages[len(req.Messages)-1].Content}, nil
}

// CallCount returns the number of times Chat was called.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request received, in arrival order.
func (m *MockChatModel) Requests() []ai.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.ChatRequest(nil), m.requests...)
}

// Reset clears recorded requests, scripted replies, and custom functions.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.replies = nil
	m.ChatFunc = nil
}
