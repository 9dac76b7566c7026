package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openaiBackend serves every OpenAI-compatible chat completions endpoint.
type openaiBackend struct {
	id     string
	client openai.Client
}

func newOpenAIBackend(p Provider, hc *http.Client) *openaiBackend {
	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(p.BaseURL, "/") + "/"),
		option.WithHTTPClient(hc),
		// Pacing between batches is the caller's job.
		option.WithMaxRetries(0),
	}
	if p.APIKey != "" {
		opts = append(opts, option.WithAPIKey(p.APIKey))
	} else {
		// Local servers ignore the key but the SDK always sends one.
		opts = append(opts, option.WithAPIKey("none"))
	}
	if p.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(p.Timeout))
	}
	return &openaiBackend{id: p.ID, client: openai.NewClient(opts...)}
}

func (b *openaiBackend) complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(Temperature),
	})
	if err != nil {
		return "", b.wrap(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: response has no choices", b.id)
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *openaiBackend) models(ctx context.Context) ([]string, error) {
	page, err := b.client.Models.List(ctx)
	if err != nil {
		return nil, b.wrap(err)
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// wrap turns SDK API errors into *APIError and leaves transport errors as
// they are.
func (b *openaiBackend) wrap(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &APIError{Provider: b.id, StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}
	return fmt.Errorf("%s: %w", b.id, err)
}
