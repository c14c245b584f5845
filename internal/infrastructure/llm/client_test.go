package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test prompt", req.Prompt)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse{Text: "generated commentary"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "key", Model: "test-model"})

	text, err := client.Generate(context.Background(), "test prompt", 0.7, 100)

	require.NoError(t, err)
	assert.Equal(t, "generated commentary", text)
}

func TestClient_GenerateErrorsOnNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "key"})

	_, err := client.Generate(context.Background(), "prompt", 0.7, 100)
	assert.Error(t, err)
}

func TestClient_IsConfigured(t *testing.T) {
	assert.False(t, NewClient(Config{}).IsConfigured())
	assert.True(t, NewClient(Config{BaseURL: "http://x", APIKey: "k"}).IsConfigured())
}
