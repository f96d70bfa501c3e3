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


package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateEmail validates an Email according to domain rules.
//
// Validation rules:
//   - Subject must not be blank
//   - Sender must not be blank
//   - Date must parse as an RFC 3339 (ISO 8601) timestamp
//
// NOT validated:
//   - Body (an empty body is a legal email)
//   - Sender address syntax (the model's choice of address is not checked)
func ValidateEmail(email *Email) error {
	if email == nil {
		return fmt.Errorf("%w: email is nil", ErrInvalidEmail)
	}

	if strings.TrimSpace(email.Subject) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEmail, ErrEmptySubject)
	}

	if strings.TrimSpace(email.Sender) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEmail, ErrEmptySender)
	}

	if _, err := ParseDate(email.Date); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEmail, err)
	}

	return nil
}

// ParseDate parses an email date in RFC 3339 form, with or without fractional seconds.
func ParseDate(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return ts, nil
}
