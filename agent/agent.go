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


package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/mailroom/ai"
	"github.com/poiesic/mailroom/core"
	"github.com/poiesic/mailroom/retrieval"
)

const (
	// FallbackResponse is returned whenever the pipeline fails.
	FallbackResponse = "An error occurred while processing your request."

	// DefaultTopK is the number of emails retrieved per query.
	DefaultTopK = 3

	// MaxContentRunes is how much of each email body goes into the context.
	MaxContentRunes = 300
)

// Agent answers questions about the email corpus, retrieving context only
// when a classifier call says the question needs it.
type Agent struct {
	chat          ai.ChatModel
	retriever     retrieval.Retriever
	decisionModel string
	answerModel   string
	topK          int
	monitor       Monitor
	logger        *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithDecisionModel sets the model used for the YES/NO retrieval decision.
// Empty uses the chat model's default.
func WithDecisionModel(model string) Option {
	return func(a *Agent) error {
		a.decisionModel = model
		return nil
	}
}

// WithAnswerModel sets the model used for reformulation and answers.
// Empty uses the chat model's default.
func WithAnswerModel(model string) Option {
	return func(a *Agent) error {
		a.answerModel = model
		return nil
	}
}

// WithTopK sets how many emails are retrieved. Default is 3.
func WithTopK(topK int) Option {
	return func(a *Agent) error {
		if topK <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidTopK, topK)
		}
		a.topK = topK
		return nil
	}
}

// WithMonitor installs a monitor used by every ProcessQuery call.
func WithMonitor(monitor Monitor) Option {
	return func(a *Agent) error {
		a.monitor = monitor
		return nil
	}
}

// NewAgent creates a query pipeline over chat and retriever.
func NewAgent(chat ai.ChatModel, retriever retrieval.Retriever, opts ...Option) (*Agent, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}

	a := &Agent{
		chat:      chat,
		retriever: retriever,
		topK:      DefaultTopK,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	a.logger = a.logger.With("component", "agent")

	return a, nil
}

// ClassifyDecision interprets a decision reply. Only "YES", ignoring case and
// surrounding whitespace, means retrieval is needed.
func ClassifyDecision(text string) bool {
	return strings.ToUpper(strings.TrimSpace(text)) == "YES"
}

// ProcessQuery runs the full pipeline and returns the answer. It never fails:
// any error becomes FallbackResponse.
func (a *Agent) ProcessQuery(ctx context.Context, query string) string {
	return a.ProcessQueryWithMonitor(ctx, query, a.monitor)
}

// ProcessQueryWithMonitor is ProcessQuery with a per-call monitor.
func (a *Agent) ProcessQueryWithMonitor(ctx context.Context, query string, monitor Monitor) (answer string) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			a.logger.Error("error during query processing", "err", err)
			monitor.Failed(err)
			answer = FallbackResponse
		}
	}()

	monitor.Start(query)
	answer, err := a.process(ctx, query, monitor)
	if err != nil {
		a.logger.Error("error during query processing", "err", err)
		monitor.Failed(err)
		return FallbackResponse
	}
	monitor.Finish(answer)
	return answer
}

func (a *Agent) process(ctx context.Context, query string, monitor Monitor) (string, error) {
	// 1. Decide whether retrieval is needed
	decision, err := a.complete(ctx, a.decisionModel, fmt.Sprintf(decisionPrompt, query))
	if err != nil {
		return "", fmt.Errorf("decision: %w", err)
	}
	needsRetrieval := ClassifyDecision(decision)
	monitor.AfterDecision(needsRetrieval)
	a.logger.Debug("retrieval decision", "needs_retrieval", needsRetrieval)

	var emailContext string
	if needsRetrieval {
		// 2. Reformulate for semantic search
		searchQuery, err := a.complete(ctx, a.answerModel, fmt.Sprintf(reformulatePrompt, query))
		if err != nil {
			return "", fmt.Errorf("reformulate: %w", err)
		}
		if searchQuery == "" {
			searchQuery = query
		}
		monitor.AfterReformulation(searchQuery)

		// 3. Retrieve and format
		hits, err := a.retriever.Search(ctx, searchQuery, a.topK)
		if err != nil {
			return "", fmt.Errorf("search: %w", err)
		}
		monitor.AfterSearch(hits)

		emailContext = a.formatContext(ctx, hits)
		monitor.AfterContext(emailContext)
	}

	// 4. Answer using the original query
	answer, err := a.complete(ctx, a.answerModel, fmt.Sprintf(answerPrompt, emailContext, query))
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}
	return answer, nil
}

// complete sends a single user message and returns the trimmed reply.
func (a *Agent) complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := a.chat.Chat(ctx, &ai.ChatRequest{
		Model:    model,
		Messages: []ai.Message{ai.UserMessage(prompt)},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// formatContext renders each hit that can be fetched. Failing hits are
// logged and left out.
func (a *Agent) formatContext(ctx context.Context, hits []core.SearchHit) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		block, err := a.formatRecord(ctx, hit)
		if err != nil {
			a.logger.Error("error formatting email", "id", hit.ID, "err", err)
			continue
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

// formatRecord fetches and renders a single hit. A panic in either step is
// returned as an error.
func (a *Agent) formatRecord(ctx context.Context, hit core.SearchHit) (block string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	email, err := a.retriever.GetRecord(ctx, hit.ID)
	if err != nil {
		return "", err
	}
	if email == nil {
		return "", ErrMissingRecord
	}
	return FormatHit(hit, email), nil
}

// FormatHit renders one retrieved email as a context block.
func FormatHit(hit core.SearchHit, email *core.Email) string {
	return fmt.Sprintf("Email %d (Relevance: %.2f)\nSubject: %s\nFrom: %s\nContent: %s...",
		hit.ID, hit.Score, email.Subject, email.Sender, truncateRunes(email.Body, MaxContentRunes))
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
