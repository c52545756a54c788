package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeProvider serves an OpenAI-compatible streaming endpoint that
// replies with the given chunks.
func newFakeProvider(t *testing.T, chunks ...string) (*httptest.Server, func() []string) {
	t.Helper()

	var (
		mu      sync.Mutex
		prompts []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Messages) > 0 {
			mu.Lock()
			prompts = append(prompts, req.Messages[0].Content)
			mu.Unlock()
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for i, chunk := range chunks {
			body, _ := json.Marshal(map[string]interface{}{
				"id":      "chatcmpl-test",
				"object":  "chat.completion.chunk",
				"model":   req.Model,
				"choices": []map[string]interface{}{{"index": 0, "delta": map[string]string{"content": chunk}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", body)
			if i == 0 {
				// an empty delta must be skipped, not surfaced as a token
				fmt.Fprint(w, `data: {"id":"chatcmpl-test","object":"chat.completion.chunk","choices":[{"index":0,"delta":{}}]}`+"\n\n")
			}
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(server.Close)

	return server, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), prompts...)
	}
}

func collect(t *testing.T, stream *TokenStream) []string {
	t.Helper()
	defer stream.Close()

	var tokens []string
	for {
		token, err := stream.Next()
		if err == io.EOF {
			return tokens
		}
		require.NoError(t, err)
		tokens = append(tokens, token)
	}
}

func TestChatService_SendPrompt_Custom(t *testing.T) {
	server, prompts := newFakeProvider(t, "Hel", "lo", "!")
	service := NewChatService(server.Client())

	stream, err := service.SendPrompt(context.Background(), ProviderConfig{
		Provider: ProviderCustom,
		Model:    "local",
		APIKey:   server.URL + "/v1/",
	}, "  say hello ")
	require.NoError(t, err)

	assert.Equal(t, []string{"Hel", "lo", "!"}, collect(t, stream))
	assert.Equal(t, []string{"say hello"}, prompts())
}

func TestChatService_SendPrompt_Ollama(t *testing.T) {
	server, _ := newFakeProvider(t, "moo")
	service := NewChatService(server.Client())

	stream, err := service.SendPrompt(context.Background(), ProviderConfig{
		Provider: ProviderOllama,
		Model:    "llama2",
		APIKey:   server.URL,
	}, "speak")
	require.NoError(t, err)

	assert.Equal(t, "moo", strings.Join(collect(t, stream), ""))
}

func TestChatService_SendPrompt_Validation(t *testing.T) {
	service := NewChatService(nil)

	_, err := service.SendPrompt(context.Background(), DefaultProviderConfig(), "   ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "message", verr.Field)

	_, err = service.SendPrompt(context.Background(), DefaultProviderConfig(), "hi")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "api_key", verr.Field)
}

func TestChatService_SendPrompt_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	service := NewChatService(server.Client())
	_, err := service.SendPrompt(context.Background(), ProviderConfig{
		Provider: ProviderCustom,
		Model:    "m",
		APIKey:   server.URL,
	}, "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Custom API error")
}
