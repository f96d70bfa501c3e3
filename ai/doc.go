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


// Package ai provides abstractions for AI services used in mailroom.
//
// This package defines the contracts through which all calls to the LLM
// service pass: chat completion (free text or schema-constrained) and text
// embeddings. Business logic depends on these interfaces rather than on a
// concrete client.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - ChatModel: Sends role-tagged messages, optionally with a JSON Schema and
//     sampling parameters, and returns the model's reply
//   - Embedder: Generates vector embeddings from text
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs (Ollama's /v1 endpoint)
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewChatModel, etc.) return
// INTERFACE types to enforce abstraction. Test utility constructors
// (mock.NewMockChatModel, mock.NewMockEmbedder) return CONCRETE types so tests
// can script replies and inspect recorded calls.
//
//	mockChat := mock.NewMockChatModel().WithReplies("YES", "acme proposal", "They proposed...")
//	count := mockChat.CallCount()
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	resp, err := provider.ChatModel().Chat(ctx, &ai.ChatRequest{
//	    Model:    config.DecisionModel,
//	    Messages: []ai.Message{ai.UserMessage("Respond with YES or NO: ...")},
//	})
//	vector, err := provider.Embedder().EmbedText(ctx, "quarterly report")
package ai
