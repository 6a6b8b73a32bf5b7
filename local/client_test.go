package local_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mfilipek/codechat"
	"github.com/mfilipek/codechat/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RequestFormat(t *testing.T) {
	t.Parallel()

	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)

		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: {\"done\":true}\n"))
	}))
	defer srv.Close()

	client := local.New(local.WithBaseURL(srv.URL))
	s, err := client.Stream(context.Background(), codechat.ChatRequest{Message: "explain this diff"})
	require.NoError(t, err)
	defer s.Close()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(captured, &body))
	assert.Equal(t, map[string]interface{}{"message": "explain this diff"}, body)
}

func TestClient_HTTPErrorDetail(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"model is still loading"}`))
	}))
	defer srv.Close()

	client := local.New(local.WithBaseURL(srv.URL))
	_, err := client.Stream(context.Background(), codechat.ChatRequest{Message: "Hi"})

	var upstream *codechat.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "model is still loading", upstream.Message)
}

func TestClient_HTTPErrorNonJSON(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
	}))
	defer srv.Close()

	client := local.New(local.WithBaseURL(srv.URL))
	_, err := client.Stream(context.Background(), codechat.ChatRequest{Message: "Hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "internal server error")
}

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	// Reserve a port and close the listener so nothing is listening on it.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := local.New(local.WithBaseURL(url))
	_, err := client.Stream(context.Background(), codechat.ChatRequest{Message: "Hi"})
	require.Error(t, err)
}
