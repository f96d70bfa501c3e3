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


package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/mailroom/ai"
	"github.com/poiesic/mailroom/core"
	"github.com/poiesic/mailroom/progress"
	"github.com/poiesic/mailroom/sink"
	"github.com/poiesic/mailroom/storage"
)

// Retriever is the retrieval gateway used by the query pipeline.
type Retriever interface {
	// LoadIndex prepares the index. It must succeed before Search is used.
	LoadIndex(ctx context.Context) error

	// Search returns up to topK hits ordered by descending score.
	Search(ctx context.Context, query string, topK int) ([]core.SearchHit, error)

	// GetRecord returns the email for a hit ID.
	// Unknown IDs return an error wrapping storage.ErrNotFound.
	GetRecord(ctx context.Context, id core.ID) (*core.Email, error)
}

// LoadStats summarizes a LoadIndex run.
type LoadStats struct {
	Files   int // email files found
	Added   int // newly indexed
	Skipped int // already indexed
	Failed  int // unreadable, invalid, or failed to embed
}

// Index implements Retriever over a storage.EmailRepository.
type Index struct {
	repo          storage.EmailRepository
	embedder      ai.Embedder
	dataDir       string
	minSimilarity float32
	pool          *ants.Pool
	progress      progress.Reporter
	logger        *slog.Logger

	loaded atomic.Bool
	mu     sync.Mutex
	stats  LoadStats
}

var _ Retriever = (*Index)(nil)

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// WithDataDir sets the directory LoadIndex reads email files from.
// Default is "data".
func WithDataDir(dir string) Option {
	return func(ix *Index) error {
		ix.dataDir = dir
		return nil
	}
}

// WithMinSimilarity drops hits scoring below threshold. Default is -1 (keep all).
func WithMinSimilarity(threshold float32) Option {
	return func(ix *Index) error {
		ix.minSimilarity = threshold
		return nil
	}
}

// WithPoolSize sets the number of concurrent embedding workers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Index) error {
		if size < 1 {
			size = 1
		}
		if ix.pool != nil {
			ix.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		ix.pool = pool
		return nil
	}
}

// WithProgress reports each embedded email to r during LoadIndex.
func WithProgress(r progress.Reporter) Option {
	return func(ix *Index) error {
		if r == nil {
			r = progress.Noop{}
		}
		ix.progress = r
		return nil
	}
}

// NewIndex creates an index over repo using embedder for vectors.
func NewIndex(repo storage.EmailRepository, embedder ai.Embedder, opts ...Option) (*Index, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ix := &Index{
		repo:          repo,
		embedder:      embedder,
		dataDir:       "data",
		minSimilarity: -1,
		pool:          pool,
		progress:      progress.Noop{},
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(ix); err != nil {
			ix.Release()
			return nil, err
		}
	}
	ix.logger = ix.logger.With("component", "retrieval")

	return ix, nil
}

// Release releases the embedding worker pool.
func (ix *Index) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}

// Stats returns the result of the most recent LoadIndex.
func (ix *Index) Stats() LoadStats {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.stats
}

type pendingEmail struct {
	path   string
	email  *core.Email
	vector []float32
	err    error
}

// LoadIndex indexes every email file in the data directory that is not
// already stored. A missing data directory is not an error: the corpus may
// already be in the repository.
func (ix *Index) LoadIndex(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	var stats LoadStats
	records, err := sink.ReadDir(ix.dataDir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load index: %w", err)
		}
		ix.logger.Warn("data directory not found, using stored corpus only", "dir", ix.dataDir)
		records = nil
	}
	stats.Files = len(records)

	var pending []*pendingEmail
	for _, rec := range records {
		if rec.Err != nil {
			ix.logger.Warn("skipping unreadable email file", "path", rec.Path, "err", rec.Err)
			stats.Failed++
			continue
		}
		if err := core.ValidateEmail(rec.Email); err != nil {
			ix.logger.Warn("skipping invalid email file", "path", rec.Path, "err", err)
			stats.Failed++
			continue
		}

		_, err := ix.repo.FindByHash(ctx, rec.Email.ContentHash())
		switch {
		case err == nil:
			stats.Skipped++
			continue
		case !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("load index: %w", err)
		}
		pending = append(pending, &pendingEmail{path: rec.Path, email: rec.Email})
	}

	if err := ix.embedAll(ctx, pending); err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	var lastErr error
	for _, p := range pending {
		if p.err != nil {
			ix.logger.Error("error embedding email", "path", p.path, "err", p.err)
			stats.Failed++
			lastErr = p.err
			continue
		}
		_, err := ix.repo.AddEmails(ctx, &core.IndexedEmail{
			Email:  *p.email,
			Vector: p.vector,
			Source: filepath.Base(p.path),
		})
		if errors.Is(err, storage.ErrDuplicateKey) {
			// Two files with identical content
			stats.Skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("load index: %w", err)
		}
		stats.Added++
	}

	ix.stats = stats
	ix.logger.Info("index loaded",
		"files", stats.Files, "added", stats.Added, "skipped", stats.Skipped, "failed", stats.Failed)

	if len(pending) > 0 && stats.Added == 0 && lastErr != nil {
		return fmt.Errorf("%w: %w", ErrEmbeddingFailed, lastErr)
	}

	ix.loaded.Store(true)
	return nil
}

// embedAll fills in vectors for pending emails on the worker pool.
func (ix *Index) embedAll(ctx context.Context, pending []*pendingEmail) error {
	if len(pending) == 0 {
		return nil
	}

	ix.progress.Start(len(pending))
	defer ix.progress.Finish()

	var wg sync.WaitGroup
	for _, p := range pending {
		wg.Add(1)
		if err := ix.pool.Submit(func() {
			defer wg.Done()
			p.vector, p.err = ix.embedder.EmbedText(ctx, p.email.EmbeddingText())
			ix.progress.Increment(1)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return err
		}
	}
	wg.Wait()
	return ctx.Err()
}

// Search embeds the query and returns the most similar emails.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]core.SearchHit, error) {
	if !ix.loaded.Load() {
		return nil, ErrIndexNotLoaded
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopK, topK)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	vector, err := ix.embedder.EmbedText(ctx, query)
	if err != nil {
		ix.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	hits, err := ix.repo.FindSimilar(ctx, vector, ix.minSimilarity, topK)
	if err != nil {
		ix.logger.Error("error querying for similar emails", "err", err)
		return nil, err
	}
	ix.logger.Debug("search complete", "query", query, "hits", len(hits))
	return hits, nil
}

// GetRecord returns the email stored under id.
func (ix *Index) GetRecord(ctx context.Context, id core.ID) (*core.Email, error) {
	indexed, err := ix.repo.GetEmail(ctx, id)
	if err != nil {
		return nil, err
	}
	email := indexed.Email
	return &email, nil
}
