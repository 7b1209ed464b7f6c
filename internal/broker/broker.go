// Package broker handles translation and rewrite requests. It resolves the
// user's settings, serves translations from the usage cache when it can,
// calls the selected provider otherwise and keeps cache, counters and
// rewrite history up to date.
package broker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/valpere/bettertext/internal"
	"github.com/valpere/bettertext/internal/history"
	"github.com/valpere/bettertext/internal/postprocess"
	"github.com/valpere/bettertext/internal/provider"
	"github.com/valpere/bettertext/internal/settings"
	"github.com/valpere/bettertext/internal/store"
	"github.com/valpere/bettertext/internal/usage"
)

// TopCount is how many texts Stats lists for the current target language.
const TopCount = 10

var (
	ErrNotConfigured = errors.New("Please configure API settings first")
	ErrEmptyText     = errors.New("text is empty")
	ErrUnknownAction = errors.New("unknown action")
)

// ProviderFactory builds a provider from resolved credentials.
type ProviderFactory func(creds settings.Credentials) (provider.Provider, error)

// LanguageDetector names the language of a text, e.g. "German".
type LanguageDetector interface {
	DetectName(text string) (string, bool)
}

// TranslationChecker reports a translation that is not in targetLang.
type TranslationChecker interface {
	Check(text, targetLang string) error
}

type Broker struct {
	st       store.Store
	cache    *usage.Cache
	counters *usage.Counters
	history  *history.History

	newProvider ProviderFactory
	detector    LanguageDetector
	checker     TranslationChecker
	logger      *zap.Logger
}

type Option func(*Broker)

func WithLogger(l *zap.Logger) Option {
	return func(b *Broker) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithProviderFactory(f ProviderFactory) Option {
	return func(b *Broker) {
		if f != nil {
			b.newProvider = f
		}
	}
}

// WithDetector enables local source-language detection when the
// autoDetectLanguage setting is on. Without a detector the model is asked
// to detect the language itself.
func WithDetector(d LanguageDetector) Option {
	return func(b *Broker) {
		b.detector = d
	}
}

// WithChecker logs a warning for fresh translations that come back in the
// wrong language. The translation is still returned and cached.
func WithChecker(c TranslationChecker) Option {
	return func(b *Broker) {
		b.checker = c
	}
}

// WithUsageOptions configures the bounds of the cache and counters.
func WithUsageOptions(opts ...usage.Option) Option {
	return func(b *Broker) {
		b.cache = usage.NewCache(b.st, opts...)
		b.counters = usage.NewCounters(b.st, opts...)
	}
}

func New(st store.Store, opts ...Option) *Broker {
	b := &Broker{
		st:       st,
		cache:    usage.NewCache(st),
		counters: usage.NewCounters(st),
		history:  history.New(st),
		newProvider: func(creds settings.Credentials) (provider.Provider, error) {
			return provider.New(creds)
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load reads the persisted cache and counters. Call it once before
// handling requests.
func (b *Broker) Load(ctx context.Context) error {
	if err := b.cache.Load(ctx); err != nil {
		return fmt.Errorf("failed to load translation cache: %w", err)
	}
	if err := b.counters.Load(ctx); err != nil {
		return fmt.Errorf("failed to load translation counters: %w", err)
	}
	b.logger.Debug("Usage state loaded",
		zap.Int("cached", b.cache.Len()),
		zap.Int("counted", b.counters.Len()))
	return nil
}

// Handle dispatches req on its action and never returns an error; failures
// are reported in the response.
func (b *Broker) Handle(ctx context.Context, req Request) Response {
	switch req.Action {
	case ActionTextSelected:
		t, fromCache, err := b.Translate(ctx, req.Text)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Status: StatusSuccess, Translation: t, FromCache: fromCache}

	case ActionTestTranslation:
		return testResponse(b.TestTranslation(ctx, req))

	case ActionRewriteText:
		rewrites, err := b.Rewrite(ctx, req.Text, req.Platform, req.TargetLanguage)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Status: StatusSuccess, Rewrites: rewrites}

	default:
		return errorResponse(fmt.Errorf("%w: %q", ErrUnknownAction, req.Action))
	}
}

// Translate translates text into the configured target language. The
// second result reports whether the translation came from the cache.
func (b *Broker) Translate(ctx context.Context, text string) (*internal.Translation, bool, error) {
	if strings.TrimSpace(text) == "" {
		return nil, false, ErrEmptyText
	}

	if err := b.st.Set(ctx, settings.KeyLastSelectedText, text); err != nil {
		b.logger.Warn("Failed to save last selected text", zap.Error(err))
	}

	s, creds, err := b.resolve(ctx)
	if err != nil {
		return nil, false, err
	}

	key := usage.Key(text, s.TargetLanguage)
	b.logger.Debug("Translating", zap.String("text", text), zap.String("target", s.TargetLanguage))

	if s.CacheTranslations {
		if cached, ok := b.cache.Get(key); ok {
			b.count(ctx, key)
			return &cached, true, nil
		}
	}

	p, err := b.newProvider(creds)
	if err != nil {
		return nil, false, err
	}

	req := provider.TranslateRequest{Text: text, TargetLang: s.TargetLanguage}
	if s.AutoDetectLanguage && b.detector != nil {
		if name, ok := b.detector.DetectName(text); ok {
			req.SourceLang = name
		}
	}

	t, err := b.translate(ctx, p, req)
	if err != nil {
		return nil, false, err
	}

	if b.checker != nil {
		if err := b.checker.Check(t.Text, s.TargetLanguage); err != nil {
			b.logger.Warn("Suspicious translation", zap.String("provider", p.Name()), zap.Error(err))
		}
	}

	// An empty degraded answer is returned once but never served from cache.
	if s.CacheTranslations && t.Text != "" {
		if err := b.cache.Set(ctx, key, *t); err != nil {
			b.logger.Warn("Failed to persist translation cache", zap.Error(err))
		}
	}
	b.count(ctx, key)

	return t, false, nil
}

// TestTranslation checks the credentials carried by req without touching
// the cache, the counters or the last selected text.
func (b *Broker) TestTranslation(ctx context.Context, req Request) (*internal.Translation, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}

	id, err := settings.ParseProviderID(req.APIProvider)
	if err != nil {
		return nil, err
	}
	creds := settings.Credentials{Provider: id, APIKey: req.APIKey, Model: req.Model}
	if !creds.Complete() {
		return nil, ErrNotConfigured
	}

	// The form under test has no base URL field, so the saved one applies.
	if s, err := settings.Load(ctx, b.st); err == nil {
		s.APIProvider = id
		creds.BaseURL = s.Credentials().BaseURL
	}

	target := req.TargetLanguage
	if target == "" {
		target = settings.DefaultTargetLanguage
	}

	p, err := b.newProvider(creds)
	if err != nil {
		return nil, err
	}
	return b.translate(ctx, p, provider.TranslateRequest{Text: req.Text, TargetLang: target})
}

// Rewrite produces exactly provider.VariantCount variants of text and
// records them in the history. Empty platform and language fall back to
// the rewriter settings.
func (b *Broker) Rewrite(ctx context.Context, text, platform, targetLang string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	s, creds, err := b.resolve(ctx)
	if err != nil {
		return nil, err
	}

	if platform == "" {
		platform = s.RewriterPlatform
	}
	if targetLang == "" {
		targetLang = s.RewriterLanguage
	}
	pl, err := provider.ParsePlatform(platform)
	if err != nil {
		return nil, err
	}

	p, err := b.newProvider(creds)
	if err != nil {
		return nil, err
	}

	rewrites, err := p.Rewrite(ctx, provider.RewriteRequest{Text: text, Platform: pl, TargetLang: targetLang})
	if err != nil {
		b.logger.Warn("Rewrite failed", zap.String("provider", p.Name()), zap.Error(err))
		return nil, err
	}

	if _, err := b.history.Add(ctx, text, string(pl), targetLang, rewrites); err != nil {
		b.logger.Warn("Failed to record rewrite history", zap.Error(err))
	}
	return rewrites, nil
}

// translate calls p and degrades a malformed answer to its cleaned raw text
// without examples, even when nothing is left after cleaning.
func (b *Broker) translate(ctx context.Context, p provider.Provider, req provider.TranslateRequest) (*internal.Translation, error) {
	t, err := p.Translate(ctx, req)
	if err == nil {
		return t, nil
	}

	var malformed *provider.MalformedResponseError
	if errors.As(err, &malformed) {
		b.logger.Warn("Provider returned unstructured translation", zap.String("provider", p.Name()), zap.Error(err))
		return &internal.Translation{Text: postprocess.Clean(malformed.Raw), Examples: []internal.Example{}}, nil
	}

	b.logger.Warn("Translation failed", zap.String("provider", p.Name()), zap.Error(err))
	return nil, err
}

func (b *Broker) resolve(ctx context.Context) (settings.Settings, settings.Credentials, error) {
	s, err := settings.Load(ctx, b.st)
	if err != nil {
		return s, settings.Credentials{}, fmt.Errorf("failed to load settings: %w", err)
	}
	creds := s.Credentials()
	if !creds.Complete() {
		return s, creds, ErrNotConfigured
	}
	return s, creds, nil
}

func (b *Broker) count(ctx context.Context, key string) {
	if _, err := b.counters.Increment(ctx, key); err != nil {
		b.logger.Warn("Failed to persist translation counters", zap.Error(err))
	}
}
