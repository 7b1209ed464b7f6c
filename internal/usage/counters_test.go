package usage

import (
	"context"
	"fmt"
	"testing"

	"github.com/valpere/bettertext/internal/store"
)

func TestCounters_KeepsTopN(t *testing.T) {
	ctx := context.Background()
	c := NewCounters(store.NewMemory(), WithMaxEntries(3))

	// counts: a=5 b=4 c=3 d=2
	plan := map[string]int{"a": 5, "b": 4, "c": 3}
	for key, n := range plan {
		for i := 0; i < n; i++ {
			c.Increment(ctx, key)
		}
	}
	c.Increment(ctx, "d")
	c.Increment(ctx, "d")

	if c.Len() != 3 {
		t.Fatalf("expected 3 tracked keys, got %d", c.Len())
	}
	for _, key := range []string{"a", "b", "c"} {
		if c.Count(key) != plan[key] {
			t.Errorf("count[%s] = %d, want %d", key, c.Count(key), plan[key])
		}
	}
	if c.Count("d") != 0 {
		t.Error("expected lowest count to be dropped")
	}
}

func TestCounters_NeverExceedsBound(t *testing.T) {
	ctx := context.Background()
	c := NewCounters(store.NewMemory(), WithMaxEntries(10))

	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("text%d_fr", i%25)
		c.Increment(ctx, key)
		if c.Len() > 10 {
			t.Fatalf("counters grew past bound: %d", c.Len())
		}
	}
}

func TestCounters_HighCountSurvivesNewcomers(t *testing.T) {
	ctx := context.Background()
	c := NewCounters(store.NewMemory(), WithMaxEntries(2))

	for i := 0; i < 3; i++ {
		c.Increment(ctx, "popular")
	}
	for i := 0; i < 20; i++ {
		c.Increment(ctx, fmt.Sprintf("once%02d", i))
	}
	if c.Count("popular") != 3 {
		t.Errorf("expected popular to survive with 3, got %d", c.Count("popular"))
	}
}

func TestCounters_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	c := NewCounters(st)
	c.Increment(ctx, "hello_fr")
	n, err := c.Increment(ctx, "hello_fr")
	if err != nil || n != 2 {
		t.Fatalf("Increment = %d, %v", n, err)
	}

	reloaded := NewCounters(st)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.Count("hello_fr") != 2 {
		t.Errorf("expected persisted count 2, got %d", reloaded.Count("hello_fr"))
	}
}

func TestCounters_StatsAndTop(t *testing.T) {
	ctx := context.Background()
	c := NewCounters(store.NewMemory())

	for i := 0; i < 3; i++ {
		c.Increment(ctx, Key("good_morning", "fr"))
	}
	c.Increment(ctx, Key("hello", "fr"))
	c.Increment(ctx, Key("hello", "de"))

	s := c.Stats()
	if s.UniqueTexts != 3 || s.TotalTranslations != 5 {
		t.Errorf("unexpected stats %+v", s)
	}

	top := c.Top("fr", 10)
	if len(top) != 2 {
		t.Fatalf("expected 2 french entries, got %d", len(top))
	}
	if top[0].Text != "good_morning" || top[0].Count != 3 {
		t.Errorf("unexpected first entry %+v", top[0])
	}

	if got := c.Top("fr", 1); len(got) != 1 {
		t.Errorf("expected limit to apply, got %d", len(got))
	}
}

func TestCounters_Reset(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	c := NewCounters(st)
	c.Increment(ctx, "a_fr")

	if err := c.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if c.Len() != 0 {
		t.Error("expected no counters after reset")
	}

	reloaded := NewCounters(st)
	reloaded.Load(ctx)
	if reloaded.Len() != 0 {
		t.Error("expected persisted counters to be empty")
	}
}
