package core

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for indexed emails.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Email is a single email record as produced by the generator and stored in the corpus.
// The sender is serialized under the external field name "from".
type Email struct {
	Date    string `json:"date"`    // ISO 8601 timestamp of email creation
	Subject string `json:"subject"` // Email subject line
	Sender  string `json:"from"`    // Sender's email address
	Body    string `json:"body"`    // Main content of the email
}

// emailFields mirrors Email but accepts the sender under either name.
type emailFields struct {
	Date    string  `json:"date"`
	Subject string  `json:"subject"`
	From    *string `json:"from"`
	Sender  *string `json:"sender"`
	Body    string  `json:"body"`
}

// UnmarshalJSON decodes an email, reading the sender from "from" or, when
// that is absent, from the internal name "sender".
func (e *Email) UnmarshalJSON(data []byte) error {
	var f emailFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*e = Email{
		Date:    f.Date,
		Subject: f.Subject,
		Body:    f.Body,
	}
	switch {
	case f.From != nil:
		e.Sender = *f.From
	case f.Sender != nil:
		e.Sender = *f.Sender
	}
	return nil
}

// ContentHash returns a deterministic ID over the fields of the email.
// Two emails with identical content hash to the same ID.
func (e Email) ContentHash() ID {
	return IDFromContent(e.Date + "\x00" + e.Subject + "\x00" + e.Sender + "\x00" + e.Body)
}

// EmbeddingText is the text used to embed the email for semantic search.
func (e Email) EmbeddingText() string {
	return e.Subject + "\n\n" + e.Body
}

// IndexedEmail is the storage envelope for an email in the corpus index.
type IndexedEmail struct {
	ID         ID
	Email      Email
	Vector     []float32 // Embedding vector for semantic search
	Source     string    // File the email was loaded from, if any
	Hash       ID        // Content hash used to skip duplicates
	InsertedAt time.Time // When the record was inserted into the database
}

// SearchHit is a single ranked result from the corpus index.
type SearchHit struct {
	ID    ID
	Score float32
}
