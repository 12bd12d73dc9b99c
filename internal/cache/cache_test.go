package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemoryStoreTagInvalidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "batches-page-1", []byte(`{"success":true}`), time.Minute, "batches"); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if err := store.Set(ctx, "courses-page-1", []byte(`{"success":true}`), time.Minute, "courses"); err != nil {
		t.Fatalf("set error: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "batches-page-1"); !ok {
		t.Fatalf("expected cached batches entry")
	}
	if err := store.InvalidateTags(ctx, "batches"); err != nil {
		t.Fatalf("invalidate error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "batches-page-1"); ok {
		t.Fatalf("expected batches entry to be dropped")
	}
	if _, ok, _ := store.Get(ctx, "courses-page-1"); !ok {
		t.Fatalf("expected courses entry to survive")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 1, 25, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set error: %v", err)
	}
	now = now.Add(59 * time.Second)
	if value, ok, _ := store.Get(ctx, "k"); !ok || string(value) != "v" {
		t.Fatalf("expected live entry, got %q ok=%v", value, ok)
	}
	now = now.Add(time.Second)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("expected entry to expire")
	}

	if err := store.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("set error: %v", err)
	}
	now = now.Add(24 * time.Hour)
	if _, ok, _ := store.Get(ctx, "forever"); !ok {
		t.Fatalf("expected zero ttl entry to persist")
	}
}

func TestRedisStoreNotConfigured(t *testing.T) {
	store := NewRedisStore(nil)
	if _, _, err := store.Get(context.Background(), "k"); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err := store.InvalidateTags(context.Background(), "t"); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestRedisStoreTagInvalidation(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	store := NewRedisStore(client)
	if err := store.Set(ctx, "portal-test-key", []byte("v"), time.Minute, "portal-test-tag"); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if value, ok, err := store.Get(ctx, "portal-test-key"); err != nil || !ok || string(value) != "v" {
		t.Fatalf("expected cached value, got %q ok=%v err=%v", value, ok, err)
	}
	if err := store.InvalidateTags(ctx, "portal-test-tag"); err != nil {
		t.Fatalf("invalidate error: %v", err)
	}
	if _, ok, err := store.Get(ctx, "portal-test-key"); err != nil || ok {
		t.Fatalf("expected key to be dropped, ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreReclaimsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 1, 25, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		if err := store.Set(ctx, fmt.Sprintf("key-%d", i), []byte("v"), time.Second, fmt.Sprintf("tag-%d", i)); err != nil {
			t.Fatalf("set error: %v", err)
		}
	}
	now = now.Add(time.Hour)
	if err := store.Set(ctx, "fresh", []byte("v"), time.Minute, "fresh-tag"); err != nil {
		t.Fatalf("set error: %v", err)
	}

	entries, tags := store.Len()
	if entries != 1 || tags != 1 {
		t.Fatalf("expected 1 entry and 1 tag after sweep, got entries=%d tags=%d", entries, tags)
	}
}

func TestMemoryStoreOverwriteDropsOldTags(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "k", []byte("v1"), time.Minute, "batches"); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if err := store.Set(ctx, "k", []byte("v2"), time.Minute, "courses"); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if err := store.InvalidateTags(ctx, "batches"); err != nil {
		t.Fatalf("invalidate error: %v", err)
	}
	if value, ok, _ := store.Get(ctx, "k"); !ok || string(value) != "v2" {
		t.Fatalf("expected entry to survive stale tag, got %q ok=%v", value, ok)
	}
	if _, tags := store.Len(); tags != 1 {
		t.Fatalf("expected only the courses tag, got %d", tags)
	}
}
