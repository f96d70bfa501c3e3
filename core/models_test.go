package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "short content", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IDFromContent(tt.content), IDFromContent(tt.content))
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	assert.NotEqual(t, IDFromContent("content1"), IDFromContent("content2"))
}

func TestEmail_MarshalUsesFromAlias(t *testing.T) {
	email := Email{
		Date:    "2024-01-15T14:30:00Z",
		Subject: "Portfolio Review Request",
		Sender:  "client@example.com",
		Body:    "Dear Michael, I would like to schedule a review.",
	}

	data, err := json.Marshal(email)
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "client@example.com", fields["from"])
	_, hasSender := fields["sender"]
	assert.False(t, hasSender, "internal field name must not be serialized")
}

func TestEmail_UnmarshalAcceptsBothSenderNames(t *testing.T) {
	t.Run("external name", func(t *testing.T) {
		var email Email
		require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-15T14:30:00Z","subject":"Hi","from":"a@example.com","body":"x"}`), &email))
		assert.Equal(t, "a@example.com", email.Sender)
	})

	t.Run("internal name", func(t *testing.T) {
		var email Email
		require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-15T14:30:00Z","subject":"Hi","sender":"b@example.com","body":"x"}`), &email))
		assert.Equal(t, "b@example.com", email.Sender)
	})

	t.Run("external name wins", func(t *testing.T) {
		var email Email
		require.NoError(t, json.Unmarshal([]byte(`{"from":"a@example.com","sender":"b@example.com"}`), &email))
		assert.Equal(t, "a@example.com", email.Sender)
	})

	t.Run("round trip", func(t *testing.T) {
		original := Email{Date: "2024-03-01T09:00:00+01:00", Subject: "Quote", Sender: "buyer@acme.com", Body: "Please send a quote."}
		data, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded Email
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, original, decoded)
	})
}

func TestEmail_ContentHash(t *testing.T) {
	a := Email{Date: "2024-01-15T14:30:00Z", Subject: "A", Sender: "x@example.com", Body: "body"}
	b := a
	assert.Equal(t, a.ContentHash(), b.ContentHash())

	b.Body = "other body"
	assert.NotEqual(t, a.ContentHash(), b.ContentHash())
}
