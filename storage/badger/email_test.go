package badger

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/poiesic/mailroom/core"
	"github.com/poiesic/mailroom/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmail(subject string, vector []float32) *core.IndexedEmail {
	return &core.IndexedEmail{
		Email: core.Email{
			Date:    "2024-01-15T14:30:00Z",
			Subject: subject,
			Sender:  "client@example.com",
			Body:    "Body of " + subject,
		},
		Vector: vector,
		Source: "email_000.json",
	}
}

func newTestRepo(t *testing.T) storage.EmailRepository {
	t.Helper()
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestAddAndGetEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddEmails(ctx, newTestEmail("Quote request", []float32{1, 0, 0}))
	require.NoError(t, err)
	require.Len(t, added, 1)

	got := added[0]
	assert.NotZero(t, got.ID)
	assert.NotZero(t, got.Hash)
	assert.Equal(t, got.Email.ContentHash(), got.Hash)
	assert.False(t, got.InsertedAt.IsZero())

	retrieved, err := repo.GetEmail(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quote request", retrieved.Email.Subject)
	assert.Equal(t, []float32{1, 0, 0}, retrieved.Vector)
	assert.Equal(t, "email_000.json", retrieved.Source)
}

func TestGetEmail_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetEmail(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddEmails_Duplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddEmails(ctx, newTestEmail("Same", nil))
	require.NoError(t, err)

	_, err = repo.AddEmails(ctx, newTestEmail("Same", nil))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Duplicates inside a single batch abort the whole batch
	_, err = repo.AddEmails(ctx, newTestEmail("A", nil), newTestEmail("A", nil))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFindByHash(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	email := newTestEmail("Hashed", nil)
	added, err := repo.AddEmails(ctx, email)
	require.NoError(t, err)

	found, err := repo.FindByHash(ctx, email.Email.ContentHash())
	require.NoError(t, err)
	assert.Equal(t, added[0].ID, found.ID)

	_, err = repo.FindByHash(ctx, core.IDFromContent("nothing"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetEmails_SkipsMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddEmails(ctx, newTestEmail("One", nil), newTestEmail("Two", nil))
	require.NoError(t, err)

	got, err := repo.GetEmails(ctx, added[0].ID, core.ID(9999), added[1].ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "One", got[0].Email.Subject)
	assert.Equal(t, "Two", got[1].Email.Subject)
}

func TestDeleteEmails(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	email := newTestEmail("Delete me", nil)
	added, err := repo.AddEmails(ctx, email)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteEmails(ctx, added[0].ID))

	_, err = repo.GetEmail(ctx, added[0].ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repo.FindByHash(ctx, email.Hash)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteEmails(ctx, added[0].ID), storage.ErrNotFound)

	// The same content can be indexed again once deleted
	_, err = repo.AddEmails(ctx, newTestEmail("Delete me", nil))
	assert.NoError(t, err)
}

func TestFindSimilar_NoRecords(t *testing.T) {
	repo := newTestRepo(t)

	results, err := repo.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 0.5, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_InvalidQuery(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.FindSimilar(ctx, []float32{1}, 0, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = repo.FindSimilar(ctx, nil, 0, 3)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestFindSimilar_WithRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddEmails(ctx,
		newTestEmail("First", []float32{1.0, 0.0, 0.0}),  // Very similar to query
		newTestEmail("Second", []float32{0.9, 0.1, 0.0}), // Somewhat similar
		newTestEmail("Third", []float32{0.0, 0.0, 1.0}),  // Not similar
		newTestEmail("Fourth", nil),                      // No vector - should be skipped
	)
	require.NoError(t, err)

	results, err := repo.FindSimilar(ctx, []float32{2.0, 0.0, 0.0}, 0.8, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, added[0].ID, results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 0.0001)
	assert.Equal(t, added[1].ID, results[1].ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestFindSimilar_LimitResults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := repo.AddEmails(ctx, newTestEmail(fmt.Sprintf("Message %d", i), []float32{0.9, 0.1, 0.0}))
		require.NoError(t, err)
	}

	queryVector := []float32{1.0, 0.0, 0.0}

	t.Run("limit to 3", func(t *testing.T) {
		results, err := repo.FindSimilar(ctx, queryVector, 0.5, 3)
		require.NoError(t, err)
		assert.Len(t, results, 3)
		// Equal scores fall back to ID order
		assert.Less(t, results[0].ID, results[1].ID)
	})

	t.Run("limit higher than results", func(t *testing.T) {
		results, err := repo.FindSimilar(ctx, queryVector, 0.5, 100)
		require.NoError(t, err)
		assert.Len(t, results, 10)
	})
}

func TestNewRepository_Persists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	repo, err := NewRepository(dir)
	require.NoError(t, err)
	added, err := repo.AddEmails(ctx, newTestEmail("Persisted", []float32{1, 0}))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = NewRepository(dir)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.GetEmail(ctx, added[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Email.Subject)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClosedRepository(t *testing.T) {
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	_, err = repo.GetEmail(context.Background(), 1)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
