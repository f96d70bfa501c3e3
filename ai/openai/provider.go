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


package openai

import (
	"log/slog"

	"github.com/poiesic/mailroom/ai"
)

// Provider serves the chat model and embedder from one ai.Config. Chat and
// embeddings may live on different hosts.
type Provider struct {
	config   *ai.Config
	chat     *ChatModel
	embedder *Embedder
	logger   *slog.Logger
}

var _ ai.AIProvider = (*Provider)(nil)

// NewProvider validates config and builds both services. No request is made
// until the first Chat or Embed call.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	chat, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-provider")
	logger.Debug("provider ready",
		"chat_host", config.ChatHost, "chat_model", config.ChatModel,
		"decision_model", config.DecisionModel,
		"embedding_host", config.EmbeddingHost, "embedding_model", config.EmbeddingModel)

	return &Provider{
		config:   config,
		chat:     chat,
		embedder: embedder,
		logger:   logger,
	}, nil
}

func (p *Provider) ChatModel() ai.ChatModel {
	return p.chat
}

func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op; the HTTP clients hold no resources that need releasing.
func (p *Provider) Close() error {
	p.logger.Debug("closing provider")
	return nil
}
