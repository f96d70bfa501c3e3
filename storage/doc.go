// Package storage defines the persistent corpus behind email retrieval.
//
// An EmailRepository holds core.IndexedEmail envelopes: the email, its
// embedding vector, the file it came from, and a content hash. The hash is
// unique per repository, so indexing the same data directory twice only
// embeds new files.
//
// FindSimilar scans every stored vector and ranks emails by cosine
// similarity.
//
//	repo, err := badger.NewRepository("./mailroom_db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
//	hits, err := repo.FindSimilar(ctx, queryVector, -1, 3)
//
// Tests use badger.NewMemoryRepository.
package storage
