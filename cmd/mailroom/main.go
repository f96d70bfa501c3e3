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


package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/mailroom"
	"github.com/poiesic/mailroom/agent"
	"github.com/poiesic/mailroom/ai"
	"github.com/poiesic/mailroom/generator"
	"github.com/poiesic/mailroom/progress"
	"github.com/poiesic/mailroom/repl"
	"github.com/poiesic/mailroom/retrieval"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdin, os.Stdout).RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func globalFlags() []cli.Flag {
	defaults := ai.DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Load global flags from a TOML file",
			EnvVars: []string{"MAILROOM_CONFIG"},
		},
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set logging level (debug, info, warn, error)",
			Value:   "info",
			EnvVars: []string{"MAILROOM_LOG_LEVEL"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "host",
			Usage:   "OpenAI-compatible service host URL for chat and embeddings",
			Value:   defaults.ChatHost,
			EnvVars: []string{"MAILROOM_HOST"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Model used for reformulation, answers and generation",
			Value:   defaults.ChatModel,
			EnvVars: []string{"MAILROOM_CHAT_MODEL"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "decision-model",
			Usage:   "Model used for the retrieval decision",
			Value:   defaults.DecisionModel,
			EnvVars: []string{"MAILROOM_DECISION_MODEL"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   defaults.EmbeddingModel,
			EnvVars: []string{"MAILROOM_EMBEDDING_MODEL"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   "mailroom_db",
			EnvVars: []string{"MAILROOM_DB"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Directory holding generated email files",
			Value:   mailroom.DefaultDataDir,
			EnvVars: []string{"MAILROOM_DATA_DIR"},
		}),
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	flags := globalFlags()
	return &cli.App{
		Name:      "mailroom",
		Usage:     "Email assistant and synthetic email generator backed by local LLMs",
		Flags:     flags,
		Reader:    in,
		Writer:    out,
		ErrWriter: os.Stderr,
		Before: func(c *cli.Context) error {
			if err := altsrc.InitInputSourceWithContext(flags, altsrc.NewTomlSourceFromFlagFunc("config"))(c); err != nil {
				return fmt.Errorf("failed to load config file: %w", err)
			}
			return setupLogger(c)
		},
		Commands: []*cli.Command{
			{
				Name:   "ask",
				Usage:  "Answer questions about the indexed emails interactively",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Print the retrieval decision and context for each question",
					},
				},
			},
			{
				Name:   "generate",
				Usage:  "Generate synthetic business emails into the data directory",
				Action: generateCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of emails to generate",
						Value:   generator.DefaultConfig().Count,
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Maximum concurrent requests (0 runs the whole batch at once)",
						Value: 0,
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Maximum chat calls per email",
						Value: generator.DefaultConfig().MaxAttempts,
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Embed and store email files that are not indexed yet",
				Action: indexCommand,
			},
			{
				Name:      "search",
				Usage:     "Print the emails most similar to a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of hits to print",
						Value:   agent.DefaultTopK,
					},
				},
			},
		},
	}
}

func aiConfig(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithDecisionModel(c.String("decision-model")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
}

func openMailroom(c *cli.Context) (*mailroom.Mailroom, error) {
	cfg := aiConfig(c)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	m, err := mailroom.New(c.String("db"),
		mailroom.WithAIConfig(cfg),
		mailroom.WithDataDir(c.String("data-dir")),
		mailroom.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return m, nil
}

func askCommand(c *cli.Context) error {
	ctx := c.Context

	m, err := openMailroom(c)
	if err != nil {
		return err
	}
	defer m.Close()

	index, err := m.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}
	defer index.Release()

	if err := index.LoadIndex(ctx); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	var opts []agent.Option
	if c.Bool("verbose") {
		opts = append(opts, agent.WithMonitor(agent.NewPrintMonitor(c.App.Writer)))
	}
	a, err := m.NewAgent(index, opts...)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	return repl.Run(ctx, c.App.Reader, c.App.Writer, a)
}

func generateCommand(c *cli.Context) error {
	ctx := c.Context

	cfg := generator.DefaultConfig()
	cfg.Count = c.Int("count")
	cfg.Concurrency = c.Int("concurrency")
	cfg.MaxAttempts = c.Int("max-attempts")
	if err := cfg.Validate(); err != nil {
		return err
	}

	m, err := openMailroom(c)
	if err != nil {
		return err
	}
	defer m.Close()

	gen, err := m.NewGenerator(
		generator.WithConfig(cfg),
		generator.WithProgress(progress.NewTracker(os.Stderr, "emails", 1)),
	)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Data directory: %s\n", m.DataDir())
	fmt.Fprintf(os.Stderr, "Chat host: %s\n", c.String("host"))
	fmt.Fprintf(os.Stderr, "Chat model: %s\n", c.String("chat-model"))
	fmt.Fprintln(os.Stderr)

	result := gen.RunBatch(ctx, cfg.Count)
	fmt.Fprintf(c.App.Writer, "Successfully generated %d out of %d emails\n", result.Succeeded, result.Requested)
	if result.PersistFailed > 0 {
		fmt.Fprintf(c.App.Writer, "%d emails could not be saved\n", result.PersistFailed)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	m, err := openMailroom(c)
	if err != nil {
		return err
	}
	defer m.Close()

	index, err := m.NewRetriever(retrieval.WithProgress(progress.NewTracker(os.Stderr, "emails", 10)))
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}
	defer index.Release()

	if err := index.LoadIndex(c.Context); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	stats := index.Stats()
	total, err := m.Repository().Count(c.Context)
	if err != nil {
		return fmt.Errorf("failed to count emails: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Files: %d, added: %d, skipped: %d, failed: %d, indexed total: %d\n",
		stats.Files, stats.Added, stats.Skipped, stats.Failed, total)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	m, err := openMailroom(c)
	if err != nil {
		return err
	}
	defer m.Close()

	index, err := m.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}
	defer index.Release()

	if err := index.LoadIndex(c.Context); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	hits, err := index.Search(c.Context, query, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Found %d hits\n", len(hits))
	for _, hit := range hits {
		email, err := index.GetRecord(c.Context, hit.ID)
		if err != nil {
			slog.Warn("skipping unreadable hit", "id", hit.ID, "err", err)
			continue
		}
		fmt.Fprintf(c.App.Writer, "\n%s\n", agent.FormatHit(hit, email))
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
