package storage

import (
	"context"

	"github.com/poiesic/mailroom/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds records whose vectors are similar to the given vector.
	// Returns hits with cosine similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]core.SearchHit, error)

	// Close releases resources held by the repository.
	Close() error
}

// EmailRepository provides operations for managing the indexed email corpus.
type EmailRepository interface {
	Repository

	// AddEmails adds one or more emails to storage.
	// Generates new IDs from a sequence, computes the content hash if unset,
	// and sets InsertedAt. Returns ErrDuplicateKey if an email with the same
	// content hash already exists; in that case nothing is written.
	AddEmails(ctx context.Context, emails ...*core.IndexedEmail) ([]*core.IndexedEmail, error)

	// GetEmail retrieves a single email by ID.
	// Returns ErrNotFound if the email doesn't exist.
	GetEmail(ctx context.Context, id core.ID) (*core.IndexedEmail, error)

	// GetEmails retrieves multiple emails by their IDs.
	// Returns only the emails that exist (no error for missing emails).
	GetEmails(ctx context.Context, ids ...core.ID) ([]*core.IndexedEmail, error)

	// FindByHash retrieves an email by content hash.
	// Returns ErrNotFound if no email has that hash.
	FindByHash(ctx context.Context, hash core.ID) (*core.IndexedEmail, error)

	// DeleteEmails removes emails by their IDs, including their hash index entries.
	// Returns ErrNotFound if any email doesn't exist.
	DeleteEmails(ctx context.Context, ids ...core.ID) error

	// Count returns the number of stored emails.
	Count(ctx context.Context) (int, error)
}
