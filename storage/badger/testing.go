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

import "github.com/poiesic/mailroom/storage"

// NewMemoryRepository creates an email repository on an in-memory database.
// Nothing touches disk; the corpus is gone once the repository is closed.
func NewMemoryRepository(opts ...BackendOption) (storage.EmailRepository, error) {
	return openRepository("", true, opts...)
}
