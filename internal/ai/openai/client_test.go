package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Lin-Jiong-HDU/aicmd/internal/ai"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient("test-key", "test-model", baseURL, Options{
		Referer: "https://aicmd.example.com",
		Title:   "aicmd",
		Logger:  zerolog.Nop(),
	})
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("key", "", "", Options{Logger: zerolog.Nop()})

	assert.Equal(t, DefaultModel, client.model)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, "key", client.apiKey)
}

func TestTranslate_SendsRequestAndExtractsCommands(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "https://aicmd.example.com", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "aicmd", r.Header.Get("X-Title"))

		var body struct {
			Model    string       `json:"model"`
			Messages []ai.Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Contains(t, body.Messages[0].Content, "/work/dir")
		assert.Equal(t, "list text files", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + "```sh\\nls *.txt\\nwc -l *.txt\\n```" + `"}}]}`))
	}))
	defer server.Close()

	commands, err := newTestClient(server.URL).Translate(context.Background(), "list text files", "/work/dir")
	require.NoError(t, err)
	assert.Equal(t, []string{"ls *.txt", "wc -l *.txt"}, commands)
}

func TestTranslate_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Translate(context.Background(), "anything", "/")
	require.Error(t, err)
	assert.Equal(t, ai.ErrStatus, ai.KindOf(err))
	assert.Contains(t, err.Error(), "invalid key")
	assert.Contains(t, err.Error(), "401")
}

func TestTranslate_EmptyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"# nothing to do"}}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Translate(context.Background(), "anything", "/")
	assert.Equal(t, ai.ErrEmpty, ai.KindOf(err))
}

func TestTranslate_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{invalid json}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Translate(context.Background(), "anything", "/")
	assert.Equal(t, ai.ErrDecode, ai.KindOf(err))
}

func TestTranslate_RejectsBeforeRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Translate(context.Background(), "   ", "/")
	assert.Equal(t, ai.ErrInvalidInput, ai.KindOf(err))

	noKey := NewClient("", "m", server.URL, Options{Logger: zerolog.Nop()})
	_, err = noKey.Translate(context.Background(), "list files", "/")
	assert.Equal(t, ai.ErrConfig, ai.KindOf(err))

	assert.False(t, called)
}

func TestTranslate_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Translate(context.Background(), "list files", "/")
	assert.Equal(t, ai.ErrTransport, ai.KindOf(err))
}

// Add integration test (only run with AICMD_INTEGRATION_TEST=1)
func TestIntegration_RealAPI(t *testing.T) {
	if os.Getenv("AICMD_INTEGRATION_TEST") == "" {
		t.Skip("Set AICMD_INTEGRATION_TEST=1 to run integration tests")
	}

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		t.Skip("OPENROUTER_API_KEY not set")
	}

	client := NewClient(apiKey, "", "", Options{Logger: zerolog.Nop()})
	commands, err := client.Translate(context.Background(), "show the current directory", "/tmp")
	require.NoError(t, err)
	assert.NotEmpty(t, commands)

	t.Logf("Commands: %v", commands)
}
