package testutil

import (
	"context"
	"sync"
	"time"
)

// InMemoryDurableExpirationStore implements expiration.DurableStore with a
// first-write-wins map keyed by (user, key).
type InMemoryDurableExpirationStore struct {
	mu      sync.Mutex
	records map[string]time.Time
}

// NewInMemoryDurableExpirationStore creates a new in-memory durable store
func NewInMemoryDurableExpirationStore() *InMemoryDurableExpirationStore {
	return &InMemoryDurableExpirationStore{
		records: make(map[string]time.Time),
	}
}

func durableKey(userID, key string) string {
	return userID + "/" + key
}

func (s *InMemoryDurableExpirationStore) Get(ctx context.Context, userID, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, found := s.records[durableKey(userID, key)]
	return expiresAt, found, nil
}

func (s *InMemoryDurableExpirationStore) SetOnce(ctx context.Context, userID, key string, expiresAt time.Time) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := durableKey(userID, key)
	if existing, found := s.records[k]; found {
		return existing, nil
	}
	s.records[k] = expiresAt
	return expiresAt, nil
}

// Clear removes all records from the store
func (s *InMemoryDurableExpirationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]time.Time)
}

// InMemorySessionExpirationStore implements expiration.SessionStore over a
// plain map, standing in for one visitor session.
type InMemorySessionExpirationStore struct {
	mu      sync.Mutex
	records map[string]time.Time
}

// NewInMemorySessionExpirationStore creates a new in-memory session store
func NewInMemorySessionExpirationStore() *InMemorySessionExpirationStore {
	return &InMemorySessionExpirationStore{
		records: make(map[string]time.Time),
	}
}

func (s *InMemorySessionExpirationStore) Get(ctx context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, found := s.records[key]
	return expiresAt, found, nil
}

func (s *InMemorySessionExpirationStore) Set(ctx context.Context, key string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = expiresAt
	return nil
}

// Clear removes all records from the store
func (s *InMemorySessionExpirationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]time.Time)
}
