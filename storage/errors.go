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


package storage

import "errors"

// Errors returned by EmailRepository implementations. Callers match them
// with errors.Is; implementations wrap them with the offending ID or hash.
var (
	// ErrNotFound is returned when no email has the requested ID or hash.
	ErrNotFound = errors.New("email not found")

	// ErrDuplicateKey is returned when an email with the same content hash
	// is already indexed.
	ErrDuplicateKey = errors.New("email already indexed")

	// ErrStorageClosed is returned for any call after the database is closed.
	ErrStorageClosed = errors.New("email store is closed")

	// ErrInvalidQuery is returned for a similarity search with an empty
	// vector or a non-positive limit.
	ErrInvalidQuery = errors.New("invalid similarity query")

	// ErrSerializationFailed wraps mus decoding failures of stored records.
	ErrSerializationFailed = errors.New("record encoding failed")
)
