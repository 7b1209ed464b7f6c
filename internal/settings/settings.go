// Package settings is the typed view over the user preferences kept in the
// settings store: provider choice, per-provider credentials, target
// language and feature toggles.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/valpere/bettertext/internal/store"
)

// Store keys. They match the names the browser extension persisted so an
// exported chrome.storage dump can be imported verbatim.
const (
	KeyAPIProvider        = "apiProvider"
	KeyAPIKey             = "apiKey"
	KeyModel              = "model"
	KeyOpenAIAPIKey       = "openaiApiKey"
	KeyOpenAIModel        = "openaiModel"
	KeyOpenAIBaseURL      = "openaiBaseUrl"
	KeyDeepSeekAPIKey     = "deepseekApiKey"
	KeyDeepSeekModel      = "deepseekModel"
	KeyDeepSeekBaseURL    = "deepseekBaseUrl"
	KeyTargetLanguage     = "targetLanguage"
	KeyAutoDetectLanguage = "autoDetectLanguage"
	KeyCacheTranslations  = "cacheTranslations"
	KeyModifierClick      = "modifierClick"
	KeyRewriterPlatform   = "rewriterPlatform"
	KeyRewriterLanguage   = "rewriterLanguage"
	KeyLastSelectedText   = "lastSelectedText"
)

const (
	DefaultTargetLanguage   = "zh-CN"
	DefaultRewriterPlatform = "outlook"
	DefaultRewriterLanguage = "en"
)

// ProviderID names a chat-completion vendor.
type ProviderID string

const (
	OpenAI   ProviderID = "openai"
	DeepSeek ProviderID = "deepseek"
)

// ParseProviderID accepts the ids stored by the settings form.
func ParseProviderID(s string) (ProviderID, error) {
	switch ProviderID(strings.ToLower(strings.TrimSpace(s))) {
	case OpenAI:
		return OpenAI, nil
	case DeepSeek:
		return DeepSeek, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("invalid API provider: %s", s)
	}
}

// ErrIncomplete is returned when the provider, key or model is missing.
var ErrIncomplete = errors.New("API settings are incomplete")

// Settings is the full set of user preferences.
type Settings struct {
	APIProvider ProviderID

	// Legacy single-provider fields, used when the provider-specific
	// field is empty.
	APIKey string
	Model  string

	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	DeepSeekAPIKey  string
	DeepSeekModel   string
	DeepSeekBaseURL string

	TargetLanguage     string
	AutoDetectLanguage bool
	CacheTranslations  bool

	ModifierClick ModifierClick

	RewriterPlatform string
	RewriterLanguage string
}

// Defaults returns the settings a fresh install starts with.
func Defaults() Settings {
	return Settings{
		TargetLanguage:     DefaultTargetLanguage,
		AutoDetectLanguage: true,
		CacheTranslations:  true,
		ModifierClick:      DefaultModifierClick(),
		RewriterPlatform:   DefaultRewriterPlatform,
		RewriterLanguage:   DefaultRewriterLanguage,
	}
}

// Credentials is everything a provider adapter needs to authenticate.
type Credentials struct {
	Provider ProviderID
	APIKey   string
	Model    string
	BaseURL  string
}

// Complete reports whether provider, key and model are all set.
func (c Credentials) Complete() bool {
	return c.Provider != "" && c.APIKey != "" && c.Model != ""
}

// Credentials resolves the fields that apply to the selected provider.
func (s Settings) Credentials() Credentials {
	c := Credentials{Provider: s.APIProvider, APIKey: s.APIKey, Model: s.Model}

	switch s.APIProvider {
	case OpenAI:
		c.APIKey = firstNonEmpty(s.OpenAIAPIKey, s.APIKey)
		c.Model = firstNonEmpty(s.OpenAIModel, s.Model)
		c.BaseURL = s.OpenAIBaseURL
	case DeepSeek:
		c.APIKey = firstNonEmpty(s.DeepSeekAPIKey, s.APIKey)
		c.Model = firstNonEmpty(s.DeepSeekModel, s.Model)
		c.BaseURL = s.DeepSeekBaseURL
	}
	return c
}

// Validate mirrors the checks of the settings form before saving.
func (s Settings) Validate() error {
	c := s.Credentials()
	switch {
	case c.Provider == "":
		return fmt.Errorf("%w: please select an API provider", ErrIncomplete)
	case c.APIKey == "":
		return fmt.Errorf("%w: please enter your API key", ErrIncomplete)
	case c.Model == "":
		return fmt.Errorf("%w: please select a model", ErrIncomplete)
	}
	return nil
}

// Load reads all settings from st, filling absent keys with defaults.
func Load(ctx context.Context, st store.Store) (Settings, error) {
	s := Defaults()

	var provider string
	strs := []struct {
		key string
		dst *string
	}{
		{KeyAPIProvider, &provider},
		{KeyAPIKey, &s.APIKey},
		{KeyModel, &s.Model},
		{KeyOpenAIAPIKey, &s.OpenAIAPIKey},
		{KeyOpenAIModel, &s.OpenAIModel},
		{KeyOpenAIBaseURL, &s.OpenAIBaseURL},
		{KeyDeepSeekAPIKey, &s.DeepSeekAPIKey},
		{KeyDeepSeekModel, &s.DeepSeekModel},
		{KeyDeepSeekBaseURL, &s.DeepSeekBaseURL},
		{KeyTargetLanguage, &s.TargetLanguage},
		{KeyRewriterPlatform, &s.RewriterPlatform},
		{KeyRewriterLanguage, &s.RewriterLanguage},
	}
	for _, f := range strs {
		if _, err := st.Get(ctx, f.key, f.dst); err != nil {
			return s, fmt.Errorf("failed to load %s: %w", f.key, err)
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{KeyAutoDetectLanguage, &s.AutoDetectLanguage},
		{KeyCacheTranslations, &s.CacheTranslations},
	}
	for _, f := range bools {
		if _, err := st.Get(ctx, f.key, f.dst); err != nil {
			return s, fmt.Errorf("failed to load %s: %w", f.key, err)
		}
	}

	if _, err := st.Get(ctx, KeyModifierClick, &s.ModifierClick); err != nil {
		return s, fmt.Errorf("failed to load %s: %w", KeyModifierClick, err)
	}

	id, err := ParseProviderID(provider)
	if err != nil {
		return s, err
	}
	s.APIProvider = id

	if s.TargetLanguage == "" {
		s.TargetLanguage = DefaultTargetLanguage
	}
	return s, nil
}

// Save validates s and writes every field to st.
func Save(ctx context.Context, st store.Store, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		KeyAPIProvider:        string(s.APIProvider),
		KeyAPIKey:             s.APIKey,
		KeyModel:              s.Model,
		KeyOpenAIAPIKey:       s.OpenAIAPIKey,
		KeyOpenAIModel:        s.OpenAIModel,
		KeyOpenAIBaseURL:      s.OpenAIBaseURL,
		KeyDeepSeekAPIKey:     s.DeepSeekAPIKey,
		KeyDeepSeekModel:      s.DeepSeekModel,
		KeyDeepSeekBaseURL:    s.DeepSeekBaseURL,
		KeyTargetLanguage:     s.TargetLanguage,
		KeyAutoDetectLanguage: s.AutoDetectLanguage,
		KeyCacheTranslations:  s.CacheTranslations,
		KeyModifierClick:      s.ModifierClick,
		KeyRewriterPlatform:   s.RewriterPlatform,
		KeyRewriterLanguage:   s.RewriterLanguage,
	}
	for key, v := range values {
		if err := st.Set(ctx, key, v); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}
	return nil
}

// Reset removes every preference key. Cache, counters and history are
// left alone.
func Reset(ctx context.Context, st store.Store) error {
	return st.Remove(ctx, Keys()...)
}

// Keys lists the preference keys in display order.
func Keys() []string {
	return []string{
		KeyAPIProvider, KeyAPIKey, KeyModel,
		KeyOpenAIAPIKey, KeyOpenAIModel, KeyOpenAIBaseURL,
		KeyDeepSeekAPIKey, KeyDeepSeekModel, KeyDeepSeekBaseURL,
		KeyTargetLanguage, KeyAutoDetectLanguage, KeyCacheTranslations,
		KeyModifierClick, KeyRewriterPlatform, KeyRewriterLanguage,
	}
}

// SetValue parses a single textual value for key and persists it. It is the
// entry point for editing one option at a time from the command line.
func SetValue(ctx context.Context, st store.Store, key, value string) error {
	switch key {
	case KeyAPIProvider:
		id, err := ParseProviderID(value)
		if err != nil {
			return err
		}
		return st.Set(ctx, key, string(id))
	case KeyAutoDetectLanguage, KeyCacheTranslations:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects a boolean: %w", key, err)
		}
		return st.Set(ctx, key, b)
	case KeyModifierClick:
		mc, err := ParseModifierClick(value)
		if err != nil {
			return err
		}
		return st.Set(ctx, key, mc)
	case KeyRewriterPlatform:
		if value != "outlook" && value != "teams" {
			return fmt.Errorf("unknown platform: %s", value)
		}
		return st.Set(ctx, key, value)
	}

	for _, k := range Keys() {
		if k == key {
			return st.Set(ctx, key, value)
		}
	}
	return fmt.Errorf("unknown setting: %s", key)
}

// IsSecret reports whether the value under key must be masked on display.
func IsSecret(key string) bool {
	return strings.HasSuffix(strings.ToLower(key), "apikey")
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	runes := []rune(secret)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
