// Package provider talks to chat-completion APIs. Each vendor gets one
// Provider implementation; the broker picks it once from the settings.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valpere/bettertext/internal"
	"github.com/valpere/bettertext/internal/settings"
)

const (
	TranslateTemperature = 0.3
	RewriteTemperature   = 0.8
	MaxTokens            = 1000

	// ExampleCount and VariantCount fix the shape of structured answers.
	ExampleCount = 2
	VariantCount = 3

	DefaultOpenAIBaseURL   = "https://api.openai.com/v1"
	DefaultDeepSeekBaseURL = "https://api.deepseek.com/v1"

	defaultTimeout = 60 * time.Second
)

// Platform selects the tone of a rewrite.
type Platform string

const (
	// Outlook asks for a formal email register.
	Outlook Platform = "outlook"
	// Teams asks for a casual chat register.
	Teams Platform = "teams"
)

func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case Outlook, Teams:
		return p, nil
	default:
		return "", fmt.Errorf("unknown platform: %s", s)
	}
}

type TranslateRequest struct {
	Text       string
	TargetLang string
	// SourceLang is a language name such as "German". Empty lets the model
	// detect it.
	SourceLang string
}

type RewriteRequest struct {
	Text       string
	Platform   Platform
	TargetLang string
}

// Provider is a chat-completion vendor able to translate and rewrite.
type Provider interface {
	Name() string
	// Translate returns a translation with exactly ExampleCount examples.
	// An answer that does not match the expected JSON shape yields a
	// *MalformedResponseError carrying the raw text.
	Translate(ctx context.Context, req TranslateRequest) (*internal.Translation, error)
	// Rewrite returns exactly VariantCount variants.
	Rewrite(ctx context.Context, req RewriteRequest) ([]string, error)
}

type Option func(*chatClient)

// WithHTTPClient replaces the default client, mostly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cc *chatClient) {
		if c != nil {
			cc.client = c
		}
	}
}

// New builds the Provider selected by creds.Provider.
func New(creds settings.Credentials, opts ...Option) (Provider, error) {
	switch creds.Provider {
	case settings.OpenAI:
		return NewOpenAI(creds.APIKey, creds.Model, creds.BaseURL, opts...), nil
	case settings.DeepSeek:
		return NewDeepSeek(creds.APIKey, creds.Model, creds.BaseURL, opts...), nil
	default:
		return nil, fmt.Errorf("invalid API provider: %q", creds.Provider)
	}
}
