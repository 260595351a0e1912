package user

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu        sync.RWMutex
	byID      map[string]Record
	byAccount map[accountKey]string
}

type accountKey struct {
	provider string
	oauthID  string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:      make(map[string]Record),
		byAccount: make(map[accountKey]string),
	}
}

func (m *MemoryStore) FindByOAuthID(_ context.Context, provider, oauthID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byAccount[accountKey{provider, oauthID}]
	if !ok {
		return nil, ErrNotFound
	}
	r := m.byID[id]
	return &r, nil
}

func (m *MemoryStore) FindByID(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStore) Create(_ context.Context, r Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := accountKey{r.Provider, r.OAuthID}
	if _, exists := m.byAccount[key]; exists {
		return nil, ErrConflict
	}

	r.ID = uuid.NewString()
	m.byID[r.ID] = r
	m.byAccount[key] = r.ID

	return &r, nil
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
