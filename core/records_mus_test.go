package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexedEmailMUS_RoundTrip(t *testing.T) {
	record := IndexedEmail{
		ID: 42,
		Email: Email{
			Date:    "2024-01-15T14:30:00Z",
			Subject: "Quarterly figures",
			Sender:  "cfo@example.com",
			Body:    "Numbers attached. Ünïcödé survives too.",
		},
		Vector:     []float32{0.1, -0.25, 0.5, 1},
		Source:     "email_007.json",
		Hash:       IDFromContent("quarterly"),
		InsertedAt: time.Date(2024, 1, 15, 14, 30, 0, 123000, time.UTC),
	}

	buf := make([]byte, IndexedEmailMUS.Size(record))
	n := IndexedEmailMUS.Marshal(record, buf)
	assert.Equal(t, len(buf), n)

	decoded, n, err := IndexedEmailMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, record, decoded)
}

func TestIndexedEmailMUS_EmptyVector(t *testing.T) {
	record := IndexedEmail{ID: 1, Email: Email{Subject: "s"}, InsertedAt: time.UnixMicro(0).UTC()}

	buf := make([]byte, IndexedEmailMUS.Size(record))
	IndexedEmailMUS.Marshal(record, buf)

	decoded, _, err := IndexedEmailMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Nil(t, decoded.Vector)
	assert.Equal(t, record.Email, decoded.Email)
}

func TestIndexedEmailMUS_Truncated(t *testing.T) {
	record := IndexedEmail{ID: 7, Email: Email{Subject: "s"}, Vector: []float32{1, 2, 3}}

	buf := make([]byte, IndexedEmailMUS.Size(record))
	IndexedEmailMUS.Marshal(record, buf)

	_, _, err := IndexedEmailMUS.Unmarshal(buf[:len(buf)/2])
	assert.Error(t, err)
}

func TestIndexedEmailMUS_OversizedVectorLength(t *testing.T) {
	record := IndexedEmail{ID: 7, Email: Email{Subject: "s"}}
	buf := make([]byte, IndexedEmailMUS.Size(record))
	n := IDMUS.Marshal(record.ID, buf)
	n += EmailMUS.Marshal(record.Email, buf[n:])
	// Claim a vector far larger than the remaining bytes
	buf[n] = 0x7f

	_, _, err := IndexedEmailMUS.Unmarshal(buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRecord))
}
