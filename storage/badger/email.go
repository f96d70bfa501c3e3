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


package badger

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/mailroom/core"
	"github.com/poiesic/mailroom/storage"
)

// EmailRepository implements storage.EmailRepository for BadgerDB.
type EmailRepository struct {
	backend     *Backend
	idSeq       *badger.Sequence
	ownsBackend bool
}

var _ storage.EmailRepository = (*EmailRepository)(nil)

// NewRepository opens (or creates) a database at path and returns an email
// repository that owns it. Closing the repository closes the database.
func NewRepository(path string, opts ...BackendOption) (storage.EmailRepository, error) {
	return openRepository(path, false, opts...)
}

func openRepository(path string, inMemory bool, opts ...BackendOption) (*EmailRepository, error) {
	backend, err := OpenBackend(path, inMemory, opts...)
	if err != nil {
		return nil, err
	}
	repo, err := NewEmailRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.ownsBackend = true
	return repo, nil
}

// NewEmailRepository creates a new EmailRepository on an existing backend.
// The caller remains responsible for closing the backend.
func NewEmailRepository(backend *Backend) (*EmailRepository, error) {
	idSeq, err := backend.GetSequence(emailIDSeq)
	if err != nil {
		return nil, err
	}

	return &EmailRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence and, if owned, the backend.
func (r *EmailRepository) Close() error {
	err := r.idSeq.Release()
	if r.ownsBackend {
		err = errors.Join(err, r.backend.Close())
	}
	return err
}

// AddEmails adds one or more emails to storage.
func (r *EmailRepository) AddEmails(ctx context.Context, emails ...*core.IndexedEmail) ([]*core.IndexedEmail, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, email := range emails {
			if err := ctx.Err(); err != nil {
				return err
			}
			if email.Hash == 0 {
				email.Hash = email.Email.ContentHash()
			}

			hashKey := makeEmailHashKey(email.Hash)
			if _, err := tx.Get(hashKey); err == nil {
				return fmt.Errorf("%w: hash %d", storage.ErrDuplicateKey, email.Hash)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			// Always generate new ID from sequence
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			email.ID = core.ID(nextID)
			email.InsertedAt = time.Now().UTC()

			// Store primary record
			if err := tx.Set(makeEmailKey(email.ID), storage.MarshalIndexedEmail(email)); err != nil {
				return err
			}

			// Update hash index
			if err := tx.Set(hashKey, storage.MarshalID(email.ID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return emails, nil
}

// GetEmail retrieves a single email by ID.
func (r *EmailRepository) GetEmail(ctx context.Context, id core.ID) (*core.IndexedEmail, error) {
	var result *core.IndexedEmail
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEmail(tx, makeEmailKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: email %d", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	return result, err
}

// GetEmails retrieves multiple emails by their IDs.
func (r *EmailRepository) GetEmails(ctx context.Context, ids ...core.ID) ([]*core.IndexedEmail, error) {
	var result []*core.IndexedEmail
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			email, err := readEmail(tx, makeEmailKey(id))
			if err != nil {
				return err
			}
			if email != nil {
				result = append(result, email)
			}
		}
		return nil
	}, false)
	return result, err
}

// FindByHash retrieves an email by content hash.
func (r *EmailRepository) FindByHash(ctx context.Context, hash core.ID) (*core.IndexedEmail, error) {
	var result *core.IndexedEmail
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := readHashIndex(tx, hash)
		if err != nil {
			return err
		}
		result, err = readEmail(tx, makeEmailKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: email %d", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	return result, err
}

// DeleteEmails removes emails by their IDs.
func (r *EmailRepository) DeleteEmails(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeEmailKey(id)

			// Read record to get the hash for index cleanup
			email, err := readEmail(tx, key)
			if err != nil {
				return err
			}
			if email == nil {
				return fmt.Errorf("%w: email %d", storage.ErrNotFound, id)
			}

			if err := tx.Delete(makeEmailHashKey(email.Hash)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of stored emails.
func (r *EmailRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(emailRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// FindSimilar scans every stored vector and ranks emails by cosine similarity.
func (r *EmailRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]core.SearchHit, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", storage.ErrInvalidQuery, limit)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", storage.ErrInvalidQuery)
	}

	var results []core.SearchHit

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(emailRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var email *core.IndexedEmail
			err := iter.Item().Value(func(val []byte) error {
				var err error
				email, err = storage.UnmarshalIndexedEmail(val)
				return err
			})
			if err != nil {
				return err
			}

			// Skip records without embeddings
			if len(email.Vector) == 0 {
				continue
			}

			similarity := cosineSimilarity(vector, email.Vector)
			if similarity >= minSimilarity {
				results = append(results, core.SearchHit{ID: email.ID, Score: similarity})
			}
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending, ties by ID
	slices.SortFunc(results, func(a, b core.SearchHit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// readEmail reads an email from the transaction. Returns nil, nil if absent.
func readEmail(tx *badger.Txn, key []byte) (*core.IndexedEmail, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var email *core.IndexedEmail
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		email, unmarshalErr = storage.UnmarshalIndexedEmail(val)
		return unmarshalErr
	})
	return email, err
}

func readHashIndex(tx *badger.Txn, hash core.ID) (core.ID, error) {
	item, err := tx.Get(makeEmailHashKey(hash))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, fmt.Errorf("%w: hash %d", storage.ErrNotFound, hash)
		}
		return 0, err
	}
	var id core.ID
	err = item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	})
	return id, err
}
