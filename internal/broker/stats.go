package broker

import (
	"context"
	"fmt"

	"github.com/valpere/bettertext/internal"
	"github.com/valpere/bettertext/internal/settings"
	"github.com/valpere/bettertext/internal/usage"
)

// Stats is the usage summary shown on the settings page.
type Stats struct {
	usage.Stats
	CachedTranslations int                `json:"cachedTranslations"`
	TargetLanguage     string             `json:"targetLanguage"`
	Top                []usage.CountEntry `json:"top"`
}

// Stats summarises the counters and lists the most translated texts for
// the configured target language.
func (b *Broker) Stats(ctx context.Context) (Stats, error) {
	s, err := settings.Load(ctx, b.st)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load settings: %w", err)
	}

	top := b.counters.Top(s.TargetLanguage, TopCount)
	if top == nil {
		top = []usage.CountEntry{}
	}
	return Stats{
		Stats:              b.counters.Stats(),
		CachedTranslations: b.cache.Len(),
		TargetLanguage:     s.TargetLanguage,
		Top:                top,
	}, nil
}

func (b *Broker) ClearCache(ctx context.Context) error {
	return b.cache.Clear(ctx)
}

func (b *Broker) ResetCounters(ctx context.Context) error {
	return b.counters.Reset(ctx)
}

func (b *Broker) History(ctx context.Context) ([]internal.RewriteEntry, error) {
	return b.history.List(ctx)
}

func (b *Broker) ClearHistory(ctx context.Context) error {
	return b.history.Clear(ctx)
}

// LastSelectedText returns the text most recently sent for translation.
func (b *Broker) LastSelectedText(ctx context.Context) (string, error) {
	var text string
	if _, err := b.st.Get(ctx, settings.KeyLastSelectedText, &text); err != nil {
		return "", err
	}
	return text, nil
}
