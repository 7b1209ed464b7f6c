// Package history keeps the most recent rewrite requests.
package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/valpere/bettertext/internal"
	"github.com/valpere/bettertext/internal/store"
)

const (
	KeyRewriteHistory = "rewriteHistory"
	MaxEntries        = 5
)

// History is a most-recent-first list of rewrites, persisted after every
// change.
type History struct {
	mu  sync.Mutex
	st  store.Store
	now func() time.Time
}

func New(st store.Store) *History {
	return &History{st: st, now: time.Now}
}

// Add records a rewrite. The first variant is taken as the chosen rewrite.
// The oldest entry is dropped once there are more than MaxEntries.
func (h *History) Add(ctx context.Context, original, platform, language string, variants []string) (internal.RewriteEntry, error) {
	entry := internal.RewriteEntry{
		ID:           uuid.New().String(),
		OriginalText: original,
		Platform:     platform,
		Language:     language,
		Timestamp:    h.now().UTC(),
		AllOptions:   append([]string(nil), variants...),
	}
	if len(variants) > 0 {
		entry.RewrittenText = variants[0]
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load(ctx)
	if err != nil {
		return entry, err
	}

	entries = append([]internal.RewriteEntry{entry}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	if err := h.st.Set(ctx, KeyRewriteHistory, entries); err != nil {
		return entry, fmt.Errorf("failed to save rewrite history: %w", err)
	}
	return entry, nil
}

// List returns the stored entries, newest first.
func (h *History) List(ctx context.Context) ([]internal.RewriteEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.st.Remove(ctx, KeyRewriteHistory)
}

func (h *History) load(ctx context.Context) ([]internal.RewriteEntry, error) {
	var entries []internal.RewriteEntry
	if _, err := h.st.Get(ctx, KeyRewriteHistory, &entries); err != nil {
		return nil, fmt.Errorf("failed to load rewrite history: %w", err)
	}
	return entries, nil
}
