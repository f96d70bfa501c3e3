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


package mailroom

import (
	"errors"
	"log/slog"

	"github.com/poiesic/mailroom/agent"
	"github.com/poiesic/mailroom/ai"
	"github.com/poiesic/mailroom/ai/openai"
	"github.com/poiesic/mailroom/generator"
	"github.com/poiesic/mailroom/retrieval"
	"github.com/poiesic/mailroom/sink"
	"github.com/poiesic/mailroom/storage"
	"github.com/poiesic/mailroom/storage/badger"
)

// DefaultDataDir is where generated emails are written and indexed from.
const DefaultDataDir = "data"

// Mailroom owns the corpus database and the AI provider, and builds the
// pipelines that share them.
type Mailroom struct {
	repo     storage.EmailRepository
	provider ai.AIProvider
	aiConfig *ai.Config
	dataDir  string
	logger   *slog.Logger
}

// Option configures a Mailroom.
type Option func(*options)

type options struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	dataDir  string
	logger   *slog.Logger
}

// WithAIConfig sets the model endpoints and names.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithProvider uses an existing provider instead of creating one from the AI config.
// The Mailroom takes ownership and closes it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithDataDir sets the email file directory. Default is "data".
func WithDataDir(dir string) Option {
	return func(o *options) {
		o.dataDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New opens the corpus database at dbPath and connects the AI provider.
func New(dbPath string, opts ...Option) (*Mailroom, error) {
	o := &options{
		aiConfig: ai.DefaultConfig(),
		dataDir:  DefaultDataDir,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.aiConfig.Validate(); err != nil {
		return nil, err
	}

	repo, err := badger.NewRepository(dbPath, badger.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	provider := o.provider
	if provider == nil {
		provider, err = openai.NewProvider(o.aiConfig)
		if err != nil {
			repo.Close()
			return nil, err
		}
	}

	return &Mailroom{
		repo:     repo,
		provider: provider,
		aiConfig: o.aiConfig,
		dataDir:  o.dataDir,
		logger:   o.logger,
	}, nil
}

// Close releases the provider and the database.
func (m *Mailroom) Close() error {
	var errs []error
	if err := m.provider.Close(); err != nil {
		m.logger.Error("error closing AI provider", "err", err)
		errs = append(errs, err)
	}
	if err := m.repo.Close(); err != nil {
		m.logger.Error("error closing email repository", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Repository returns the corpus store.
func (m *Mailroom) Repository() storage.EmailRepository {
	return m.repo
}

// Provider returns the AI provider.
func (m *Mailroom) Provider() ai.AIProvider {
	return m.provider
}

// DataDir returns the email file directory.
func (m *Mailroom) DataDir() string {
	return m.dataDir
}

// NewRetriever creates an index over the corpus reading files from the data directory.
// The caller must Release it.
func (m *Mailroom) NewRetriever(opts ...retrieval.Option) (*retrieval.Index, error) {
	base := []retrieval.Option{
		retrieval.WithDataDir(m.dataDir),
		retrieval.WithLogger(m.logger),
	}
	return retrieval.NewIndex(m.repo, m.provider.Embedder(), append(base, opts...)...)
}

// NewAgent creates a query pipeline using the configured decision and chat models.
func (m *Mailroom) NewAgent(retriever retrieval.Retriever, opts ...agent.Option) (*agent.Agent, error) {
	base := []agent.Option{
		agent.WithDecisionModel(m.aiConfig.DecisionModel),
		agent.WithAnswerModel(m.aiConfig.ChatModel),
		agent.WithLogger(m.logger),
	}
	return agent.NewAgent(m.provider.ChatModel(), retriever, append(base, opts...)...)
}

// NewGenerator creates a structured generator writing into the data directory.
func (m *Mailroom) NewGenerator(opts ...generator.Option) (*generator.Generator, error) {
	s, err := sink.NewDirSink(m.dataDir, sink.WithLogger(m.logger))
	if err != nil {
		return nil, err
	}
	base := []generator.Option{generator.WithLogger(m.logger)}
	return generator.NewGenerator(m.provider.ChatModel(), s, append(base, opts...)...)
}
