package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// httpBackend calls the native Gemini and Anthropic APIs.
type httpBackend struct {
	prov Provider
	http *resty.Client
}

func newHTTPBackend(p Provider, hc *http.Client) *httpBackend {
	c := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimRight(p.BaseURL, "/")).
		SetHeader("Content-Type", "application/json")
	switch p.Format {
	case FormatGemini:
		if p.APIKey != "" {
			c.SetHeader("x-goog-api-key", p.APIKey)
		}
	case FormatAnthropic:
		if p.APIKey != "" {
			c.SetHeader("x-api-key", p.APIKey)
		}
		c.SetHeader("anthropic-version", "2023-06-01")
	}
	return &httpBackend{prov: p, http: c}
}

type part struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

func (b *httpBackend) complete(ctx context.Context, model, prompt string) (string, error) {
	var (
		path string
		body any
	)
	switch b.prov.Format {
	case FormatGemini:
		req := geminiRequest{Contents: []geminiContent{{Role: "user", Parts: []part{{Text: prompt}}}}}
		req.GenerationConfig.Temperature = Temperature
		path, body = fmt.Sprintf("/v1beta/models/%s:generateContent", model), req
	case FormatAnthropic:
		path, body = "/messages", anthropicRequest{
			Model:       model,
			MaxTokens:   8192,
			Temperature: Temperature,
			Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		}
	default:
		return "", fmt.Errorf("%s: unsupported API format", b.prov.ID)
	}

	resp, err := b.http.R().SetContext(ctx).SetBody(body).Post(path)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", b.prov.ID, err)
	}
	if resp.IsError() {
		return "", b.apiError(resp)
	}
	text, err := ExtractText(resp.Body())
	if err != nil {
		return "", fmt.Errorf("%s: %w", b.prov.ID, err)
	}
	return text, nil
}

func (b *httpBackend) models(ctx context.Context) ([]string, error) {
	var path, query string
	switch b.prov.Format {
	case FormatGemini:
		path, query = "/v1beta/models", "models.#.name"
	case FormatAnthropic:
		path, query = "/models", "data.#.id"
	default:
		return nil, fmt.Errorf("%s: unsupported API format", b.prov.ID)
	}

	resp, err := b.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", b.prov.ID, err)
	}
	if resp.IsError() {
		return nil, b.apiError(resp)
	}

	var ids []string
	for _, v := range gjson.GetBytes(resp.Body(), query).Array() {
		ids = append(ids, strings.TrimPrefix(v.String(), "models/"))
	}
	return ids, nil
}

func (b *httpBackend) apiError(resp *resty.Response) error {
	msg := ErrorMessage(resp.Body())
	if msg == "" {
		msg = truncate(strings.TrimSpace(resp.String()), 500)
	}
	return &APIError{Provider: b.prov.ID, StatusCode: resp.StatusCode(), Message: msg}
}
