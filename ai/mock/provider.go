// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import (
	"sync/atomic"

	"github.com/poiesic/mailroom/ai"
)

// MockProvider bundles a MockChatModel and a MockEmbedder behind ai.AIProvider.
type MockProvider struct {
	chat     *MockChatModel
	embedder *MockEmbedder
	closed   atomic.Bool
}

var _ ai.AIProvider = (*MockProvider)(nil)

// NewMockProvider creates a provider with a fresh chat model and embedder.
// Type-assert to *MockProvider to reach them.
func NewMockProvider() ai.AIProvider {
	return NewMockProviderWithServices(NewMockChatModel(), NewMockEmbedder())
}

// NewMockProviderWithServices creates a provider around existing mocks, so a
// test can script replies before handing the provider to the code under test.
func NewMockProviderWithServices(chat *MockChatModel, embedder *MockEmbedder) ai.AIProvider {
	return &MockProvider{
		chat:     chat,
		embedder: embedder,
	}
}

func (p *MockProvider) ChatModel() ai.ChatModel {
	return p.chat
}

func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Close marks the provider closed. It never fails.
func (p *MockProvider) Close() error {
	p.closed.Store(true)
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed.Load()
}

// GetMockChatModel returns the chat model for scripting and assertions.
func (p *MockProvider) GetMockChatModel() *MockChatModel {
	return p.chat
}

// GetMockEmbedder returns the embedder for call counts and custom vectors.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}
