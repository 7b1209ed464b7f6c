package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_New_InvalidPath(t *testing.T) {
	_, err := NewSQLite("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "etcd"})
	if err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), Config{Driver: "memory"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("expected *Memory, got %T", s)
	}
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func testRoundTrip(t *testing.T, s Store) {
	ctx := context.Background()

	var got sample
	found, err := s.Get(ctx, "missing", &got)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("expected missing key to be not found")
	}

	if err := s.Set(ctx, "sample", sample{Name: "hello", Count: 3}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "targetLanguage", "fr"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	found, err = s.Get(ctx, "sample", &got)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || got.Name != "hello" || got.Count != 3 {
		t.Errorf("unexpected value: found=%v got=%+v", found, got)
	}

	// overwrite
	if err := s.Set(ctx, "sample", sample{Name: "bye", Count: 1}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := s.Get(ctx, "sample", &got); err != nil || got.Name != "bye" {
		t.Errorf("expected overwritten value, got %+v (err %v)", got, err)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 keys, got %d", len(all))
	}
	if string(all["targetLanguage"]) != `"fr"` {
		t.Errorf("unexpected raw value %s", all["targetLanguage"])
	}

	if err := s.Remove(ctx, "sample", "does-not-exist"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	found, _ = s.Get(ctx, "sample", &got)
	if found {
		t.Error("expected key to be removed")
	}
}

func TestSQLite_RoundTrip(t *testing.T) {
	testRoundTrip(t, newTestSQLite(t))
}

func TestMemory_RoundTrip(t *testing.T) {
	testRoundTrip(t, NewMemory())
}

func TestSQLite_Persists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.Set(ctx, "apiProvider", "openai"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Close()

	s, err = NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s.Close()

	var provider string
	found, err := s.Get(ctx, "apiProvider", &provider)
	if err != nil || !found || provider != "openai" {
		t.Errorf("expected persisted value, got %q found=%v err=%v", provider, found, err)
	}
}

func TestSQLite_Get_DecodeError(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.Set(ctx, "count", "not-a-number"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var n int
	if _, err := s.Get(ctx, "count", &n); err == nil {
		t.Error("expected decode error")
	}
}

func TestRedis_KeyPrefix(t *testing.T) {
	r := NewRedis(nil, WithRedisPrefix("ext:"))
	if got := r.key("apiKey"); got != "ext:apiKey" {
		t.Errorf("expected ext:apiKey, got %q", got)
	}

	r = NewRedis(nil, WithRedisPrefix(""))
	if got := r.key("apiKey"); got != defaultRedisPrefix+"apiKey" {
		t.Errorf("expected default prefix, got %q", got)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on borrowed client should be a no-op: %v", err)
	}
}

// TestRedis_RoundTrip needs a running server; set BETTERTEXT_TEST_REDIS_ADDR
// to enable it.
func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("BETTERTEXT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("BETTERTEXT_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	prefix := "bettertext-test-" + uuid.NewString() + ":"
	r, err := DialRedis(ctx, RedisConfig{Addr: addr, Prefix: prefix})
	if err != nil {
		t.Fatalf("DialRedis failed: %v", err)
	}
	defer r.Close()

	if err := r.Set(ctx, "targetLanguage", "fr"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var lang string
	found, err := r.Get(ctx, "targetLanguage", &lang)
	if err != nil || !found || lang != "fr" {
		t.Fatalf("Get = %q, %v, %v", lang, found, err)
	}

	all, err := r.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if string(all["targetLanguage"]) != `"fr"` {
		t.Errorf("unexpected All result: %v", all)
	}

	if err := r.Remove(ctx, "targetLanguage"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if found, _ := r.Get(ctx, "targetLanguage", &lang); found {
		t.Error("expected key to be removed")
	}
}
