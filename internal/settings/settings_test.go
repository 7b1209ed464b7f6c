package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/valpere/bettertext/internal/store"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(context.Background(), store.NewMemory())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.TargetLanguage != DefaultTargetLanguage {
		t.Errorf("expected default target language, got %q", s.TargetLanguage)
	}
	if !s.AutoDetectLanguage || !s.CacheTranslations {
		t.Error("expected auto-detect and caching to default to true")
	}
	if !s.ModifierClick.Enabled || s.ModifierClick.PreferredModifier != ModifierAuto {
		t.Errorf("unexpected modifier defaults: %+v", s.ModifierClick)
	}
	if s.Credentials().Complete() {
		t.Error("expected empty credentials to be incomplete")
	}
}

func TestLoad_ExplicitFalse(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	st.Set(ctx, KeyCacheTranslations, false)

	s, err := Load(ctx, st)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.CacheTranslations {
		t.Error("expected stored false to override default")
	}
}

func TestLoad_InvalidProvider(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	st.Set(ctx, KeyAPIProvider, "gemini")

	if _, err := Load(ctx, st); err == nil {
		t.Error("expected error for invalid provider")
	}
}

func TestCredentials(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Credentials
	}{
		{
			name: "legacy fields",
			in:   Settings{APIProvider: OpenAI, APIKey: "k", Model: "gpt-4o-mini"},
			want: Credentials{Provider: OpenAI, APIKey: "k", Model: "gpt-4o-mini"},
		},
		{
			name: "provider specific wins",
			in: Settings{
				APIProvider: DeepSeek, APIKey: "legacy", Model: "legacy-model",
				DeepSeekAPIKey: "ds", DeepSeekModel: "deepseek-chat", DeepSeekBaseURL: "http://ds",
				OpenAIAPIKey: "oa",
			},
			want: Credentials{Provider: DeepSeek, APIKey: "ds", Model: "deepseek-chat", BaseURL: "http://ds"},
		},
		{
			name: "openai specific model with legacy key",
			in:   Settings{APIProvider: OpenAI, APIKey: "k", OpenAIModel: "gpt-4o"},
			want: Credentials{Provider: OpenAI, APIKey: "k", Model: "gpt-4o"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Credentials(); got != tt.want {
				t.Errorf("Credentials() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSave_Validates(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	s := Defaults()
	s.APIProvider = OpenAI
	s.Model = "gpt-4o-mini"
	err := Save(ctx, st, s)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}

	s.APIKey = "sk-test"
	if err := Save(ctx, st, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(ctx, st)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != s {
		t.Errorf("loaded settings differ:\n got %+v\nwant %+v", loaded, s)
	}
}

func TestReset(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	st.Set(ctx, KeyAPIProvider, "openai")
	st.Set(ctx, "translationCache", map[string]string{"a_fr": "b"})

	if err := Reset(ctx, st); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	all, _ := st.All(ctx)
	if _, ok := all[KeyAPIProvider]; ok {
		t.Error("expected provider to be removed")
	}
	if _, ok := all["translationCache"]; !ok {
		t.Error("expected cache to survive a settings reset")
	}
}

func TestSetValue(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{KeyAPIProvider, "DeepSeek", false},
		{KeyAPIProvider, "bing", true},
		{KeyCacheTranslations, "false", false},
		{KeyCacheTranslations, "maybe", true},
		{KeyModifierClick, "alt,nosmart", false},
		{KeyModifierClick, "hyper", true},
		{KeyRewriterPlatform, "teams", false},
		{KeyRewriterPlatform, "slack", true},
		{KeyTargetLanguage, "ja", false},
		{"colour", "blue", true},
	}
	for _, tt := range tests {
		err := SetValue(ctx, st, tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("SetValue(%s, %s) err = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
		}
	}

	s, err := Load(ctx, st)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.APIProvider != DeepSeek {
		t.Errorf("expected deepseek, got %q", s.APIProvider)
	}
	if s.CacheTranslations {
		t.Error("expected caching disabled")
	}
	if s.ModifierClick.PreferredModifier != ModifierAlt || s.ModifierClick.SmartCrossPlatform {
		t.Errorf("unexpected modifier settings: %+v", s.ModifierClick)
	}
	if s.TargetLanguage != "ja" || s.RewriterPlatform != "teams" {
		t.Errorf("unexpected values: %+v", s)
	}
}

func TestMask(t *testing.T) {
	if got := Mask("sk-abcdef1234"); got != "*********1234" {
		t.Errorf("Mask = %q", got)
	}
	if got := Mask("abc"); got != "***" {
		t.Errorf("Mask = %q", got)
	}
	if got := Mask("ключ-секрет"); got != "*******крет" {
		t.Errorf("Mask split a multi-byte rune: %q", got)
	}
	if got := Mask("ключ"); got != "****" {
		t.Errorf("Mask = %q", got)
	}
	if !IsSecret(KeyDeepSeekAPIKey) || IsSecret(KeyModel) {
		t.Error("unexpected IsSecret result")
	}
}
