package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bi-data-explainer/backend/internal/config"
)

func newTestGenAIClient(t *testing.T, handler http.HandlerFunc) *GenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewGenAIClient(config.AIConfig{
		BaseURL:          srv.URL,
		Model:            "test-model",
		Temperature:      0.8,
		MaxOutputTokens:  2000,
		TransportTimeout: 5 * time.Second,
	})
}

func TestGenAIClientComplete(t *testing.T) {
	var calls atomic.Int32
	c := newTestGenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Contains(t, r.URL.Path, "test-model:generateContent")
		assert.Equal(t, "key-1", r.Header.Get("x-goog-api-key"))

		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Contains(t, string(body), "describe the data")
		assert.Contains(t, string(body), "application/json")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"ok\":true}"}]}}]}`))
	})

	text, err := c.Complete(context.Background(), "key-1", CompletionRequest{
		SystemInstruction: "json only",
		Prompt:            "describe the data",
		JSON:              true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenAIClientUpstreamError(t *testing.T) {
	c := newTestGenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`))
	})

	_, err := c.Complete(context.Background(), "key-1", CompletionRequest{Prompt: "x"})
	assert.Error(t, err)
}

func TestGenAIClientMissingKey(t *testing.T) {
	c := NewGenAIClient(config.AIConfig{TransportTimeout: time.Second})

	_, err := c.Complete(context.Background(), "  ", CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGenAIClientCachesPerKey(t *testing.T) {
	c := newTestGenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"}]}}]}`))
	})

	first, err := c.clientFor(context.Background(), "key-1")
	require.NoError(t, err)
	again, err := c.clientFor(context.Background(), "key-1")
	require.NoError(t, err)
	other, err := c.clientFor(context.Background(), "key-2")
	require.NoError(t, err)

	assert.Same(t, first, again)
	assert.NotSame(t, first, other)
	assert.True(t, strings.HasPrefix(c.Model(), "test-"))
}
