// Package usage holds the broker's translation cache and usage counters.
// Both are loaded from the settings store at startup and written back after
// every mutation.
package usage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/elliotchance/orderedmap/v3"
	"golang.org/x/text/unicode/norm"

	"github.com/valpere/bettertext/internal"
	"github.com/valpere/bettertext/internal/store"
)

const (
	KeyTranslationCache    = "translationCache"
	KeyTranslationCounters = "translationCounters"

	DefaultMaxEntries = 1000
)

// Key builds the composite cache/counter key for text and a target
// language. Text is NFC-normalized so canonically equivalent selections
// share an entry.
func Key(text, targetLang string) string {
	return norm.NFC.String(text) + "_" + targetLang
}

// Cache maps keys to translations. Once it grows past its bound, the oldest
// inserted entries are dropped; reads do not refresh an entry's position.
type Cache struct {
	mu      sync.Mutex
	st      store.Store
	max     int
	entries *orderedmap.OrderedMap[string, internal.Translation]
}

type Option func(*options)

type options struct {
	max int
}

// WithMaxEntries overrides DefaultMaxEntries.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.max = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{max: DefaultMaxEntries}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func NewCache(st store.Store, opts ...Option) *Cache {
	o := buildOptions(opts)
	return &Cache{
		st:      st,
		max:     o.max,
		entries: orderedmap.NewOrderedMap[string, internal.Translation](),
	}
}

// Load replaces the in-memory entries with the persisted snapshot.
func (c *Cache) Load(ctx context.Context) error {
	var snap cacheSnapshot
	if _, err := c.st.Get(ctx, KeyTranslationCache, &snap); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = orderedmap.NewOrderedMap[string, internal.Translation]()
	for _, e := range snap {
		c.entries.Set(e.key, e.value)
	}
	c.trim()
	return nil
}

func (c *Cache) Get(key string) (internal.Translation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Get(key)
}

// Set stores value under key, evicts the oldest entries beyond the bound and
// persists the result. A key that already exists keeps its original
// position. The in-memory update happens even when persisting fails.
func (c *Cache) Set(ctx context.Context, key string, value internal.Translation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Set(key, value)
	c.trim()
	return c.save(ctx)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Keys returns the keys oldest first.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.entries.Len())
	for el := c.entries.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}
	return keys
}

// Clear drops every entry and removes the persisted snapshot.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = orderedmap.NewOrderedMap[string, internal.Translation]()
	return c.st.Remove(ctx, KeyTranslationCache)
}

func (c *Cache) trim() {
	for c.entries.Len() > c.max {
		c.entries.Delete(c.entries.Front().Key)
	}
}

func (c *Cache) save(ctx context.Context) error {
	snap := make(cacheSnapshot, 0, c.entries.Len())
	for el := c.entries.Front(); el != nil; el = el.Next() {
		snap = append(snap, cacheItem{key: el.Key, value: el.Value})
	}
	if err := c.st.Set(ctx, KeyTranslationCache, snap); err != nil {
		return fmt.Errorf("failed to persist cache: %w", err)
	}
	return nil
}

type cacheItem struct {
	key   string
	value internal.Translation
}

// cacheSnapshot is persisted as a JSON object whose member order is the
// insertion order, the same layout a browser writes for a plain object.
type cacheSnapshot []cacheItem

func (s cacheSnapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(item.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(item.value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *cacheSnapshot) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("translation cache: expected object, got %v", tok)
	}

	var out cacheSnapshot
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("translation cache: expected key, got %v", tok)
		}
		var value internal.Translation
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("translation cache entry %q: %w", key, err)
		}
		out = append(out, cacheItem{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}
