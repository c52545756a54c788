package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/maoucrm/crm/internal/constants"
	"github.com/sashabaranov/go-openai"
)

// ChatService forwards prompts to an OpenAI-compatible provider
type ChatService struct {
	httpClient *http.Client
}

// NewChatService creates a new ChatService. A nil client uses the
// library default.
func NewChatService(httpClient *http.Client) *ChatService {
	return &ChatService{httpClient: httpClient}
}

// TokenStream yields the reply in arrival order. It cannot be restarted.
type TokenStream struct {
	stream *openai.ChatCompletionStream
}

// Next returns the next non-empty chunk of text, or io.EOF once the
// provider has finished.
func (t *TokenStream) Next() (string, error) {
	for {
		resp, err := t.stream.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("chat stream error: %w", err)
		}

		var b strings.Builder
		for _, choice := range resp.Choices {
			b.WriteString(choice.Delta.Content)
		}
		if b.Len() > 0 {
			return b.String(), nil
		}
	}
}

// Close releases the underlying connection
func (t *TokenStream) Close() error {
	return t.stream.Close()
}

// SendPrompt opens a streamed completion for a single user message.
// Cancelling ctx stops the stream.
func (s *ChatService) SendPrompt(ctx context.Context, cfg ProviderConfig, prompt string) (*TokenStream, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, invalid("message", "is required")
	}
	if len(prompt) > constants.MaxChatMessageBytes {
		return nil, invalid("message", fmt.Sprintf("must be at most %d bytes", constants.MaxChatMessageBytes))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := openai.NewClientWithConfig(s.clientConfig(cfg))

	stream, err := client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", cfg.Provider, err)
	}

	return &TokenStream{stream: stream}, nil
}

func (s *ChatService) clientConfig(cfg ProviderConfig) openai.ClientConfig {
	var config openai.ClientConfig

	switch cfg.Provider {
	case ProviderOllama:
		base := cfg.APIKey
		if base == "" {
			base = constants.DefaultOllamaURL
		}
		config = openai.DefaultConfig("")
		config.BaseURL = strings.TrimRight(base, "/") + "/v1"
	case ProviderCustom:
		config = openai.DefaultConfig("")
		config.BaseURL = strings.TrimRight(cfg.APIKey, "/")
	default:
		config = openai.DefaultConfig(cfg.APIKey)
	}

	if s.httpClient != nil {
		config.HTTPClient = s.httpClient
	}
	return config
}
