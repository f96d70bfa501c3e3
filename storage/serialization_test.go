package storage

import (
	"testing"
	"time"

	"github.com/poiesic/mailroom/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalIndexedEmail(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	email := core.Email{
		Date:    "2024-01-15T14:30:00Z",
		Subject: "Quarterly figures",
		Sender:  "cfo@acme.example",
		Body:    "Attached are the Q4 numbers.",
	}
	record := &core.IndexedEmail{
		ID:         7,
		Email:      email,
		Vector:     []float32{0.25, -0.5, 1},
		Source:     "email_007.json",
		Hash:       email.ContentHash(),
		InsertedAt: now,
	}

	decoded, err := UnmarshalIndexedEmail(MarshalIndexedEmail(record))
	require.NoError(t, err)
	assert.Equal(t, record.ID, decoded.ID)
	assert.Equal(t, record.Email, decoded.Email)
	assert.Equal(t, record.Vector, decoded.Vector)
	assert.Equal(t, record.Source, decoded.Source)
	assert.Equal(t, record.Hash, decoded.Hash)
	assert.True(t, record.InsertedAt.Equal(decoded.InsertedAt))
}

func TestUnmarshalIndexedEmail_Truncated(t *testing.T) {
	record := &core.IndexedEmail{ID: 1, Email: core.Email{Subject: "s"}, Vector: []float32{1, 2, 3}}
	data := MarshalIndexedEmail(record)

	_, err := UnmarshalIndexedEmail(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
