package sessionstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok := store.Get(ctx, "client-1"); ok {
		t.Fatal("fresh store should be empty")
	}

	store.Set(ctx, "client-1", "gid://shopify/Cart/1")
	id, ok := store.Get(ctx, "client-1")
	if !ok || id != "gid://shopify/Cart/1" {
		t.Fatalf("unexpected slot %q ok=%v", id, ok)
	}

	store.Clear(ctx, "client-1")
	if _, ok := store.Get(ctx, "client-1"); ok {
		t.Fatal("cleared slot should be absent")
	}
	if !store.Available(ctx) {
		t.Fatal("memory store is always available")
	}
}

type flakyStore struct {
	slots     map[string]string
	available bool
}

func (f *flakyStore) Get(ctx context.Context, clientID string) (string, bool) {
	if !f.available {
		return "", false
	}
	id, ok := f.slots[clientID]
	return id, ok
}

func (f *flakyStore) Set(ctx context.Context, clientID, sessionID string) {
	if f.available {
		f.slots[clientID] = sessionID
	}
}

func (f *flakyStore) Clear(ctx context.Context, clientID string) {
	if f.available {
		delete(f.slots, clientID)
	}
}

func (f *flakyStore) Available(ctx context.Context) bool {
	return f.available
}

func TestFallbackPrefersDurable(t *testing.T) {
	ctx := context.Background()
	durable := &flakyStore{slots: map[string]string{"client-1": "gid://shopify/Cart/9"}, available: true}
	store := WithFallback(durable, NewMemoryStore())

	id, ok := store.Get(ctx, "client-1")
	if !ok || id != "gid://shopify/Cart/9" {
		t.Fatalf("unexpected slot %q ok=%v", id, ok)
	}
}

func TestFallbackDegradesToMemory(t *testing.T) {
	ctx := context.Background()
	durable := &flakyStore{slots: map[string]string{}, available: true}
	store := WithFallback(durable, NewMemoryStore())

	store.Set(ctx, "client-1", "gid://shopify/Cart/1")

	// Backend goes away mid-session; reads keep working from memory.
	durable.available = false
	id, ok := store.Get(ctx, "client-1")
	if !ok || id != "gid://shopify/Cart/1" {
		t.Fatalf("expected memory fallback, got %q ok=%v", id, ok)
	}

	// Writes during the outage never error and stay readable.
	store.Set(ctx, "client-1", "gid://shopify/Cart/2")
	if id, _ := store.Get(ctx, "client-1"); id != "gid://shopify/Cart/2" {
		t.Fatalf("expected updated slot, got %q", id)
	}
}

func TestFallbackNilDurable(t *testing.T) {
	memory := NewMemoryStore()
	store := WithFallback(nil, memory)
	store.Set(context.Background(), "client-1", "gid://shopify/Cart/1")
	if id, ok := memory.Get(context.Background(), "client-1"); !ok || id == "" {
		t.Fatal("nil durable should collapse to the memory store")
	}
}

type stubRedis struct {
	values map[string]string
	err    error
}

func (s *stubRedis) Get(ctx context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	id, ok := s.values[key]
	if !ok {
		return "", errNotFound
	}
	return id, nil
}

func (s *stubRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.values[key] = value.(string)
	return nil
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) error {
	if s.err != nil {
		return s.err
	}
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *stubRedis) Ping(ctx context.Context) error {
	return s.err
}

func (s *stubRedis) CartSessionKey(clientID string) string {
	return "jaylife:cart_session:" + clientID
}

var errNotFound = errors.New("redis: nil")

func TestRedisStoreNeverFails(t *testing.T) {
	ctx := context.Background()
	stub := &stubRedis{values: map[string]string{}, err: errors.New("connection refused")}
	store := &RedisStore{client: stub, ttl: time.Hour}

	// All operations absorb backend failures.
	store.Set(ctx, "client-1", "gid://shopify/Cart/1")
	store.Clear(ctx, "client-1")
	if _, ok := store.Get(ctx, "client-1"); ok {
		t.Fatal("unavailable backend should read as absent")
	}
	if store.Available(ctx) {
		t.Fatal("store should report unavailable")
	}

	stub.err = nil
	store.Set(ctx, "client-1", "gid://shopify/Cart/1")
	if id, ok := store.Get(ctx, "client-1"); !ok || id != "gid://shopify/Cart/1" {
		t.Fatalf("unexpected slot %q ok=%v", id, ok)
	}
	if !store.Available(ctx) {
		t.Fatal("store should report available")
	}
}
