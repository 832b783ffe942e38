package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	pkgredis "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/redis"
)

// Store persists checkout sessions between requests.
type Store interface {
	Load(ctx context.Context, storeID, sessionID string) (*Session, error)
	Save(ctx context.Context, storeID string, session *Session) error
	Delete(ctx context.Context, storeID, sessionID string) error
}

type RedisStore struct {
	client *pkgredis.Client
	ttl    time.Duration
}

func NewRedisStore(client *pkgredis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context, storeID, sessionID string) (*Session, error) {
	raw, err := r.client.Get(ctx, r.client.CheckoutSessionKey(storeID, sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode checkout session")
	}
	return &session, nil
}

func (r *RedisStore) Save(ctx context.Context, storeID string, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode checkout session")
	}
	key := r.client.CheckoutSessionKey(storeID, session.ID)
	if err := r.client.Set(ctx, key, payload, r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, storeID, sessionID string) error {
	if err := r.client.Del(ctx, r.client.CheckoutSessionKey(storeID, sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete checkout session")
	}
	return nil
}

// MemoryStore backs tests and single-process deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Load(_ context.Context, storeID, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[storeID+"/"+sessionID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
	}
	clone := *session
	return &clone, nil
}

func (m *MemoryStore) Save(_ context.Context, storeID string, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *session
	m.sessions[storeID+"/"+session.ID] = &clone
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, storeID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, storeID+"/"+sessionID)
	return nil
}
