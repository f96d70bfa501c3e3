package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAnswerer struct {
	mu      sync.Mutex
	queries []string
	ctxErrs []error
	onQuery func(query string)
}

func (r *recordingAnswerer) ProcessQuery(ctx context.Context, query string) string {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	fn := r.onQuery
	r.mu.Unlock()
	if fn != nil {
		fn(query)
	}
	r.mu.Lock()
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
	r.mu.Unlock()
	return "answer to " + query
}

func (r *recordingAnswerer) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func TestIsExit(t *testing.T) {
	assert.True(t, IsExit("exit"))
	assert.True(t, IsExit("EXIT"))
	assert.True(t, IsExit("  Exit \r"))
	assert.False(t, IsExit("exit now"))
	assert.False(t, IsExit("quit"))
	assert.False(t, IsExit(""))
}

func TestRun_ExitSkipsPipeline(t *testing.T) {
	a := &recordingAnswerer{}
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader("ExIt\nnever asked\n"), &out, a)
	require.NoError(t, err)
	assert.Empty(t, a.seen())
	assert.Contains(t, out.String(), "Advanced Email Assistant")
}

func TestRun_AnswersEachLine(t *testing.T) {
	a := &recordingAnswerer{}
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader("first question\n\nsecond question\nexit\n"), &out, a, WithBanner(false))
	require.NoError(t, err)
	assert.Equal(t, []string{"first question", "second question"}, a.seen())

	text := out.String()
	assert.NotContains(t, text, "Advanced Email Assistant")
	assert.Contains(t, text, "Response:\n"+rule+"\nanswer to first question\n"+rule+"\n")
	assert.Less(t, strings.Index(text, "answer to first question"), strings.Index(text, "answer to second question"))
}

func TestRun_EOF(t *testing.T) {
	a := &recordingAnswerer{}
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader("only one"), &out, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"only one"}, a.seen())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("tty gone")
}

func TestRun_ReadError(t *testing.T) {
	err := Run(context.Background(), failingReader{}, io.Discard, &recordingAnswerer{})
	assert.ErrorContains(t, err, "tty gone")
}

func TestRun_LogsThroughOption(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := Run(context.Background(), failingReader{}, io.Discard, &recordingAnswerer{}, WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, logs.String(), "failed to read input")
	assert.Contains(t, logs.String(), "component=repl")
	assert.Contains(t, logs.String(), "tty gone")

	logs.Reset()
	ctx, cancel := context.WithCancel(context.Background())
	a := &recordingAnswerer{onQuery: func(string) { cancel() }}
	require.NoError(t, Run(ctx, strings.NewReader("question\n"), io.Discard, a, WithLogger(logger)))
	assert.Contains(t, logs.String(), "processing query")
	assert.Contains(t, logs.String(), "interrupted, leaving session")
}

func TestRun_InterruptWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, pr, &out, &recordingAnswerer{})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after interrupt")
	}
	assert.True(t, strings.HasSuffix(out.String(), "Goodbye!\n"))
}

func TestRun_InterruptDuringQuery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &recordingAnswerer{onQuery: func(string) { cancel() }}
	var out bytes.Buffer

	err := Run(ctx, strings.NewReader("question\nanother\n"), &out, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"question"}, a.seen())
	assert.Equal(t, []error{nil}, a.ctxErrs, "the running query is not canceled")

	output := out.String()
	assert.Contains(t, output, "answer to question")
	assert.True(t, strings.HasSuffix(output, "Goodbye!\n"))
	assert.Less(t, strings.Index(output, "answer to question"), strings.Index(output, "Goodbye!"))
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
