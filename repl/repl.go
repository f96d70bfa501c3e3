package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	banner = "\n========================================\n" +
		"  Advanced Email Assistant\n" +
		"========================================\n" +
		"Type 'exit' to quit.\n\n"
	prompt    = "Your question: "
	rule      = "--------------------------------------------------"
	farewell  = "\nGoodbye!"
	exitInput = "exit"
)

// Answerer turns one question into one answer. It must not fail.
type Answerer interface {
	ProcessQuery(ctx context.Context, query string) string
}

// Option configures Run.
type Option func(*session)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBanner toggles the greeting printed before the first prompt.
func WithBanner(show bool) Option {
	return func(s *session) {
		s.banner = show
	}
}

type session struct {
	out      io.Writer
	answerer Answerer
	logger   *slog.Logger
	banner   bool
}

// IsExit reports whether a line asks the loop to stop.
func IsExit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), exitInput)
}

// Run reads one question per line from in and writes each answer to out.
// It returns when the user types "exit", when in is exhausted, or when ctx
// is canceled. Cancellation is treated as an interrupt: a query already in
// progress finishes and is printed, then a farewell is printed and Run
// returns nil.
func Run(ctx context.Context, in io.Reader, out io.Writer, answerer Answerer, opts ...Option) error {
	s := &session{
		out:      out,
		answerer: answerer,
		logger:   slog.Default(),
		banner:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "repl")

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	if s.banner {
		fmt.Fprint(out, banner)
	}

	for {
		fmt.Fprint(out, prompt)

		var line string
		select {
		case <-ctx.Done():
			s.logger.Info("interrupted, leaving session")
			fmt.Fprintln(out, farewell)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				select {
				case err := <-readErr:
					if err != nil {
						s.logger.Error("failed to read input", "err", err)
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				s.logger.Debug("input closed")
				return nil
			}
			line = l
		}

		if IsExit(line) {
			s.logger.Debug("exit requested")
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		s.logger.Debug("processing query", "query", line)
		// An interrupt is honored between queries, never inside one.
		answer := s.answerer.ProcessQuery(context.WithoutCancel(ctx), line)

		fmt.Fprintln(out, "\nResponse:")
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, answer)
		fmt.Fprintln(out, rule)

		if ctx.Err() != nil {
			s.logger.Info("interrupted, leaving session")
			fmt.Fprintln(out, farewell)
			return nil
		}
	}
}
