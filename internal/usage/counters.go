package usage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/valpere/bettertext/internal/store"
)

// Counters tracks how often each key was translated. Past the bound only
// the highest counts are kept; unlike Cache, age plays no part.
type Counters struct {
	mu     sync.Mutex
	st     store.Store
	max    int
	counts map[string]int
}

// CountEntry is one counted text.
type CountEntry struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// Stats summarises the counters.
type Stats struct {
	UniqueTexts       int `json:"uniqueTexts"`
	TotalTranslations int `json:"totalTranslations"`
}

func NewCounters(st store.Store, opts ...Option) *Counters {
	o := buildOptions(opts)
	return &Counters{
		st:     st,
		max:    o.max,
		counts: make(map[string]int),
	}
}

func (c *Counters) Load(ctx context.Context) error {
	counts := make(map[string]int)
	if _, err := c.st.Get(ctx, KeyTranslationCounters, &counts); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = counts
	c.trim()
	return nil
}

// Increment bumps key by one, trims to the bound and persists. It returns
// the new count, which is 0 if key itself was trimmed away.
func (c *Counters) Increment(ctx context.Context, key string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[key]++
	c.trim()

	if err := c.st.Set(ctx, KeyTranslationCounters, c.counts); err != nil {
		return c.counts[key], fmt.Errorf("failed to persist counters: %w", err)
	}
	return c.counts[key], nil
}

func (c *Counters) Count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[key]
}

func (c *Counters) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.counts)
}

func (c *Counters) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{UniqueTexts: len(c.counts)}
	for _, n := range c.counts {
		s.TotalTranslations += n
	}
	return s
}

// Top returns up to n texts counted for targetLang, most frequent first.
func (c *Counters) Top(targetLang string, n int) []CountEntry {
	suffix := "_" + targetLang

	c.mu.Lock()
	var out []CountEntry
	for key, count := range c.counts {
		if !strings.HasSuffix(key, suffix) {
			continue
		}
		out = append(out, CountEntry{Text: strings.TrimSuffix(key, suffix), Count: count})
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text < out[j].Text
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Reset zeroes every counter.
func (c *Counters) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts = make(map[string]int)
	return c.st.Set(ctx, KeyTranslationCounters, c.counts)
}

// trim keeps the max highest counts. Ties are broken by key so the result is
// deterministic.
func (c *Counters) trim() {
	if len(c.counts) <= c.max {
		return
	}

	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := c.counts[keys[i]], c.counts[keys[j]]
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys[c.max:] {
		delete(c.counts, k)
	}
}
