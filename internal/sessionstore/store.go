package sessionstore

import "context"

// Store is a per-client durable slot holding a single opaque cart session
// id. Writes are fire-and-forget: implementations never return storage
// errors, they log and degrade. Available reports whether the durable
// backend is currently reachable so callers can decide deliberately instead
// of relying on swallowed exceptions.
type Store interface {
	Get(ctx context.Context, clientID string) (string, bool)
	Set(ctx context.Context, clientID, sessionID string)
	Clear(ctx context.Context, clientID string)
	Available(ctx context.Context) bool
}

// WithFallback layers an in-memory mirror over a durable backend. Writes go
// to both; reads prefer the durable slot and fall back to memory when the
// backend is down, preserving in-session behavior across an outage.
func WithFallback(durable Store, memory *MemoryStore) Store {
	if durable == nil {
		return memory
	}
	return &fallbackStore{durable: durable, memory: memory}
}

type fallbackStore struct {
	durable Store
	memory  *MemoryStore
}

func (f *fallbackStore) Get(ctx context.Context, clientID string) (string, bool) {
	if f.durable.Available(ctx) {
		if id, ok := f.durable.Get(ctx, clientID); ok {
			f.memory.Set(ctx, clientID, id)
			return id, true
		}
		return "", false
	}
	return f.memory.Get(ctx, clientID)
}

func (f *fallbackStore) Set(ctx context.Context, clientID, sessionID string) {
	f.memory.Set(ctx, clientID, sessionID)
	f.durable.Set(ctx, clientID, sessionID)
}

func (f *fallbackStore) Clear(ctx context.Context, clientID string) {
	f.memory.Clear(ctx, clientID)
	f.durable.Clear(ctx, clientID)
}

func (f *fallbackStore) Available(ctx context.Context) bool {
	return true
}
