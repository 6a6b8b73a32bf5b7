package json_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mfilipek/codechat"
	codechatjson "github.com/mfilipek/codechat/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleHistory builds a two-session history with millisecond-precision
// timestamps, matching what any load produces.
func sampleHistory() []codechat.Session {
	return []codechat.Session{
		{
			ID:    "session_1700000001000",
			Title: "write a hello world",
			Messages: []codechat.Message{
				{ID: "msg_1700000001000_a1", Text: "write a hello world", IsUser: true, Timestamp: time.UnixMilli(1700000001000)},
				{ID: "msg_1700000002000_b2", Text: "Here you go.", IsUser: false, Timestamp: time.UnixMilli(1700000002000)},
			},
			CreatedAt: time.UnixMilli(1700000001000),
			UpdatedAt: time.UnixMilli(1700000002000),
		},
		{
			ID:    "session_1690000000000",
			Title: codechat.DefaultTitle,
			Messages: []codechat.Message{
				{ID: "msg_1690000000500_c3", Text: "hi", IsUser: true, Timestamp: time.UnixMilli(1690000000500)},
			},
			CreatedAt: time.UnixMilli(1690000000000),
			UpdatedAt: time.UnixMilli(1690000000500),
		},
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	t.Parallel()

	original := sampleHistory()

	data, err := codechatjson.MarshalHistory(original)
	require.NoError(t, err)

	loaded, err := codechatjson.UnmarshalHistory(data)
	require.NoError(t, err)

	assert.Equal(t, original, loaded)
}

func TestMarshalHistory_FieldNames(t *testing.T) {
	t.Parallel()

	data, err := codechatjson.MarshalHistory(sampleHistory())
	require.NoError(t, err)

	var doc struct {
		Version  int `json:"version"`
		Sessions []map[string]any
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 1, doc.Version)
	require.Len(t, doc.Sessions, 2)

	s := doc.Sessions[0]
	for _, key := range []string{"id", "title", "messages", "createdAt", "updatedAt"} {
		assert.Contains(t, s, key)
	}
	msgs, ok := s["messages"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, msgs)
	m, ok := msgs[0].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"id", "text", "isUser", "timestamp"} {
		assert.Contains(t, m, key)
	}
	// Timestamps are integer milliseconds, not RFC 3339 strings.
	assert.Equal(t, float64(1700000001000), m["timestamp"])
}

func TestUnmarshalHistory_LegacyArray(t *testing.T) {
	t.Parallel()

	legacy := `[
		{
			"id": "session_1700000001000",
			"title": "New Chat",
			"messages": [
				{"id": "msg_1", "text": "hi", "isUser": true, "timestamp": 1700000001000}
			],
			"createdAt": 1700000001000,
			"updatedAt": 1700000001000
		}
	]`

	sessions, err := codechatjson.UnmarshalHistory([]byte(legacy))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "session_1700000001000", sessions[0].ID)
	require.Len(t, sessions[0].Messages, 1)
	assert.True(t, sessions[0].Messages[0].IsUser)
	assert.Equal(t, time.UnixMilli(1700000001000), sessions[0].Messages[0].Timestamp)
}

func TestUnmarshalHistory_Errors(t *testing.T) {
	t.Parallel()

	t.Run("not json", func(t *testing.T) {
		t.Parallel()
		_, err := codechatjson.UnmarshalHistory([]byte("{not valid json"))
		assert.Error(t, err)
	})

	t.Run("unsupported version", func(t *testing.T) {
		t.Parallel()
		_, err := codechatjson.UnmarshalHistory([]byte(`{"version": 2, "sessions": []}`))
		assert.ErrorContains(t, err, "unsupported history version")
	})
}
