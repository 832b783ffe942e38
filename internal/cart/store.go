package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	pkgredis "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/redis"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
)

// Store persists cart state per storefront session.
type Store interface {
	Load(ctx context.Context, storeID, sessionID string) (*State, error)
	Save(ctx context.Context, storeID, sessionID string, state *State) error
	Delete(ctx context.Context, storeID, sessionID string) error
}

// RedisStore keeps carts as JSON blobs with a TTL.
type RedisStore struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisStore builds a redis-backed cart store.
func NewRedisStore(client *pkgredis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context, storeID, sessionID string) (*State, error) {
	raw, err := r.client.Get(ctx, r.client.CartKey(storeID, sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return &State{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	return &state, nil
}

func (r *RedisStore) Save(ctx context.Context, storeID, sessionID string, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := r.client.Set(ctx, r.client.CartKey(storeID, sessionID), string(payload), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, storeID, sessionID string) error {
	if err := r.client.Del(ctx, r.client.CartKey(storeID, sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}

// MemoryStore is an in-process store used in tests and single-node dev.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]*State
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*State)}
}

func (m *MemoryStore) Load(ctx context.Context, storeID, sessionID string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.carts[storeID+"/"+sessionID]; ok {
		clone := *state
		clone.Lines = append([]Line(nil), state.Lines...)
		return &clone, nil
	}
	return &State{}, nil
}

func (m *MemoryStore) Save(ctx context.Context, storeID, sessionID string, state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *state
	clone.Lines = append([]Line(nil), state.Lines...)
	m.carts[storeID+"/"+sessionID] = &clone
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, storeID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, storeID+"/"+sessionID)
	return nil
}
