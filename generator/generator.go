package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/mailroom/ai"
	"github.com/poiesic/mailroom/core"
	"github.com/poiesic/mailroom/progress"
	"github.com/poiesic/mailroom/retry"
	"github.com/poiesic/mailroom/schema"
	"github.com/poiesic/mailroom/sink"
)

// Generator synthesizes schema-conforming email records.
// It is safe for concurrent use.
type Generator struct {
	chat     ai.ChatModel
	sink     sink.Sink
	schema   *schema.Schema
	cfg      Config
	sleep    retry.SleepFunc
	progress progress.Reporter
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(g *Generator) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		g.cfg = cfg
		return nil
	}
}

// WithSleep replaces the wait used between attempts.
func WithSleep(sleep retry.SleepFunc) Option {
	return func(g *Generator) error {
		g.sleep = sleep
		return nil
	}
}

// WithProgress reports each finished batch task to r.
func WithProgress(r progress.Reporter) Option {
	return func(g *Generator) error {
		if r == nil {
			r = progress.Noop{}
		}
		g.progress = r
		return nil
	}
}

// NewGenerator creates a generator that asks chat for records and hands
// valid ones to s.
func NewGenerator(chat ai.ChatModel, s sink.Sink, opts ...Option) (*Generator, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}
	if s == nil {
		return nil, ErrSinkRequired
	}

	g := &Generator{
		chat:     chat,
		sink:     s,
		schema:   schema.Email(),
		cfg:      DefaultConfig(),
		sleep:    retry.SleepContext,
		progress: progress.Noop{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	g.logger = g.logger.With("component", "generator")

	return g, nil
}

// Config returns the active configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// outcome is the result of one generation task.
type outcome struct {
	email      *core.Email
	persistErr error
}

// Generate produces one validated record for index and persists it.
// It returns nil when every attempt failed. A record that validated but
// could not be persisted is still returned.
func (g *Generator) Generate(ctx context.Context, index int) *core.Email {
	return g.generate(ctx, index).email
}

func (g *Generator) generate(ctx context.Context, index int) outcome {
	logger := g.logger.With("index", index)

	email, err := retry.DoValue(ctx, g.policy(logger), func(ctx context.Context) (*core.Email, error) {
		return g.attempt(ctx)
	})
	if err != nil {
		logger.Error("failed to generate email", "err", err)
		return outcome{}
	}

	persistErr := g.sink.Save(ctx, email, index)
	if persistErr != nil {
		logger.Error("file save error", "err", persistErr)
	}
	return outcome{email: email, persistErr: persistErr}
}

func (g *Generator) policy(logger *slog.Logger) retry.Policy {
	return retry.Policy{
		MaxAttempts: g.cfg.MaxAttempts,
		Backoff:     retry.Exponential(g.cfg.BackoffMultiplier, g.cfg.BackoffMin, g.cfg.BackoffMax, g.cfg.BackoffUnit),
		Retryable: func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		},
		Sleep: g.sleep,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			logger.Warn("retrying due to failure", "attempt", attempt, "delay", delay, "err", err)
		},
		Logger: logger,
	}
}

// attempt makes one chat call and validates the reply.
func (g *Generator) attempt(ctx context.Context) (*core.Email, error) {
	resp, err := g.chat.Chat(ctx, g.request())
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return nil, ErrEmptyReply
	}

	payload, err := g.schema.Validate([]byte(resp.Content))
	if err != nil {
		return nil, err
	}

	var email core.Email
	if err := json.Unmarshal(payload, &email); err != nil {
		return nil, fmt.Errorf("decode email: %w", err)
	}
	if err := core.ValidateEmail(&email); err != nil {
		return nil, err
	}
	return &email, nil
}

func (g *Generator) request() *ai.ChatRequest {
	options := g.cfg.Generation
	return &ai.ChatRequest{
		Model: g.cfg.Model,
		Messages: []ai.Message{
			ai.SystemMessage(personaPrompt),
			ai.UserMessage(userPrompt),
		},
		Format:  g.schema.JSON(),
		Options: &options,
	}
}

// BatchResult summarizes a RunBatch call.
type BatchResult struct {
	Requested int
	Succeeded int
	// Failed lists the indices that exhausted their attempts, ascending.
	Failed []int
	// PersistFailed counts records that validated but could not be saved.
	// They are included in Succeeded.
	PersistFailed int
	// Emails holds each task's record by index; nil for failures.
	Emails []*core.Email
}

// RunBatch runs n independent generation tasks and waits for all of them.
// Tasks run on a worker pool sized to Config.Concurrency, or n when that is 0.
func (g *Generator) RunBatch(ctx context.Context, n int) BatchResult {
	result := BatchResult{Requested: n}
	if n <= 0 {
		return result
	}

	size := g.cfg.Concurrency
	if size <= 0 || size > n {
		size = n
	}
	outcomes := make([]outcome, n)

	pool, err := ants.NewPool(size)
	if err != nil {
		g.logger.Error("error creating worker pool", "err", err)
		return g.aggregate(result, outcomes)
	}
	defer pool.Release()

	g.progress.Start(n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			outcomes[i] = g.generate(ctx, i)
			g.progress.Increment(1)
		}); err != nil {
			wg.Done()
			g.logger.Error("error submitting task", "index", i, "err", err)
		}
	}
	wg.Wait()
	g.progress.Finish()

	result = g.aggregate(result, outcomes)
	g.logger.Info("generation complete",
		"succeeded", result.Succeeded, "requested", result.Requested, "persist_failed", result.PersistFailed)
	return result
}

func (g *Generator) aggregate(result BatchResult, outcomes []outcome) BatchResult {
	result.Emails = make([]*core.Email, len(outcomes))
	for i, o := range outcomes {
		if o.email == nil {
			result.Failed = append(result.Failed, i)
			continue
		}
		result.Succeeded++
		result.Emails[i] = o.email
		if o.persistErr != nil {
			result.PersistFailed++
		}
	}
	return result
}
