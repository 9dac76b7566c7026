// Package provider talks to the language model services used for translation.
//
// OpenAI-compatible services (OpenAI, Groq, Ollama and custom endpoints) go
// through the official OpenAI SDK; Google Gemini and Anthropic are called on
// their native HTTP APIs. A Client satisfies translate.Translator.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Provider identifiers.
const (
	ProviderOpenAI       = "openai"
	ProviderGroq         = "groq"
	ProviderOllama       = "ollama"
	ProviderCustomOpenAI = "custom-openai"
	ProviderGoogle       = "google"
	ProviderAnthropic    = "anthropic"
)

// DefaultModel is used when neither flags nor config name a model.
const DefaultModel = "gpt-4o-mini"

// Temperature is sent with every completion request.
const Temperature = 0.3

// Format is the wire format spoken by a provider.
type Format int

const (
	FormatOpenAIChat Format = iota
	FormatGemini
	FormatAnthropic
)

// Provider holds the configuration for an AI translation service.
type Provider struct {
	// ID is the provider identifier (openai, groq, google, ...).
	ID string
	// Name is the display name.
	Name string
	// Format selects the request and response shape.
	Format Format
	// BaseURL is the API base URL.
	BaseURL string
	// APIKey is the authentication key (empty for local services).
	APIKey string
	// Model is the default model identifier.
	Model string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout bounds a single request.
	Timeout time.Duration
	// KeyOptional is set for services that run without authentication.
	KeyOptional bool
}

// DefaultProviders returns the pre-configured provider definitions.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ProviderOpenAI: {
			ID:      ProviderOpenAI,
			Name:    "OpenAI",
			Format:  FormatOpenAIChat,
			BaseURL: "https://api.openai.com/v1",
			Model:   DefaultModel,
			Timeout: 60 * time.Second,
		},
		ProviderGroq: {
			ID:      ProviderGroq,
			Name:    "Groq",
			Format:  FormatOpenAIChat,
			BaseURL: "https://api.groq.com/openai/v1",
			Model:   "llama-3.3-70b-versatile",
			Timeout: 60 * time.Second,
		},
		ProviderOllama: {
			ID:          ProviderOllama,
			Name:        "Ollama",
			Format:      FormatOpenAIChat,
			BaseURL:     "http://localhost:11434/v1",
			Timeout:     120 * time.Second,
			KeyOptional: true,
		},
		ProviderCustomOpenAI: {
			ID:          ProviderCustomOpenAI,
			Name:        "Custom OpenAI",
			Format:      FormatOpenAIChat,
			Timeout:     60 * time.Second,
			KeyOptional: true,
		},
		ProviderGoogle: {
			ID:      ProviderGoogle,
			Name:    "Google AI (Gemini)",
			Format:  FormatGemini,
			BaseURL: "https://generativelanguage.googleapis.com",
			Model:   "gemini-2.0-flash",
			Timeout: 120 * time.Second,
		},
		ProviderAnthropic: {
			ID:      ProviderAnthropic,
			Name:    "Anthropic",
			Format:  FormatAnthropic,
			BaseURL: "https://api.anthropic.com/v1",
			Model:   "claude-3-5-haiku-latest",
			Timeout: 120 * time.Second,
		},
	}
}

// IDs returns the known provider identifiers, sorted.
func IDs() []string {
	providers := DefaultProviders()
	ids := make([]string, 0, len(providers))
	for id := range providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Lookup returns the definition of a known provider.
func Lookup(id string) (Provider, error) {
	p, ok := DefaultProviders()[strings.ToLower(id)]
	if !ok {
		return Provider{}, fmt.Errorf("unknown provider %q (known: %s)", id, strings.Join(IDs(), ", "))
	}
	return p, nil
}

// Validate reports missing settings that would make every request fail.
func (p Provider) Validate() error {
	if p.BaseURL == "" {
		return fmt.Errorf("provider %s: base URL is required", p.ID)
	}
	if p.APIKey == "" && !p.KeyOptional {
		return fmt.Errorf("provider %s: API key is required", p.ID)
	}
	return nil
}

// APIError is a non-success reply from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.StatusCode, msg)
}

// backend is the per-format implementation behind a Client.
type backend interface {
	complete(ctx context.Context, model, prompt string) (string, error)
	models(ctx context.Context) ([]string, error)
}

// Client sends prompts to one provider.
type Client struct {
	prov Provider
	impl backend
}

// New validates p and builds a client for it.
func New(p Provider) (*Client, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	hc := makeHTTPClient(p.Proxy, p.Timeout)
	c := &Client{prov: p}
	switch p.Format {
	case FormatGemini, FormatAnthropic:
		c.impl = newHTTPBackend(p, hc)
	default:
		c.impl = newOpenAIBackend(p, hc)
	}
	return c, nil
}

// Provider returns the configuration the client was built with.
func (c *Client) Provider() Provider { return c.prov }

// Complete sends prompt as a single user message and returns the reply text.
// An empty model selects the provider's default.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		model = c.prov.Model
	}
	if model == "" {
		return "", fmt.Errorf("provider %s: no model selected", c.prov.ID)
	}
	return c.impl.complete(ctx, model, prompt)
}

// Models lists the model identifiers the provider offers, sorted.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ids, err := c.impl.models(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	// An explicit proxy wins over HTTP_PROXY/HTTPS_PROXY.
	if proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
