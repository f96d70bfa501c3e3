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


package schema

import "errors"

var (
	// ErrValidation is returned when a payload does not conform to a schema.
	ErrValidation = errors.New("schema validation failed")

	// ErrNotJSONObject is returned when a payload is not a JSON object.
	ErrNotJSONObject = errors.New("payload is not a JSON object")

	// ErrNoFields is returned when a schema is declared without fields.
	ErrNoFields = errors.New("schema has no fields")

	// ErrDuplicateField is returned when two fields share an external name.
	ErrDuplicateField = errors.New("duplicate field name")

	// ErrUnknownType is returned for field types the schema cannot render.
	ErrUnknownType = errors.New("unknown field type")
)
