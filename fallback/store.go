package fallback

import (
	"strings"
	"sync"
	"time"
)

// StoreConfig configures the last-known-good store.
type StoreConfig struct {
	// TTL is how long a stored value stays servable.
	// Default: 5 minutes
	TTL time.Duration
}

// Store is an in-memory store of the most recent successful result per key.
// Values expire after the configured TTL; expired entries are cleaned up
// lazily on read.
type Store struct {
	config StoreConfig

	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	value     any
	storedAt  time.Time
	expiresAt time.Time
}

// NewStore creates a last-known-good store.
func NewStore(config ...StoreConfig) *Store {
	cfg := StoreConfig{TTL: 5 * time.Minute}
	if len(config) > 0 && config[0].TTL > 0 {
		cfg = config[0]
	}

	return &Store{
		config:  cfg,
		entries: make(map[string]*entry),
	}
}

// ValidateKey checks whether a key is usable.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// Put stores a value under the key, replacing any previous value and
// restarting its TTL.
func (s *Store) Put(key string, value any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	now := time.Now()
	s.mu.Lock()
	s.entries[key] = &entry{
		value:     value,
		storedAt:  now,
		expiresAt: now.Add(s.config.TTL),
	}
	s.mu.Unlock()

	return nil
}

// Get retrieves the stored value for a key. Returns (nil, false) on miss or
// expiry.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Age returns how long ago the value for a key was stored. Returns false on
// miss or expiry.
func (s *Store) Age(key string) (time.Duration, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return 0, false
	}
	return time.Since(e.storedAt), true
}

// Delete removes a stored value. Idempotent, no error on miss.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the number of stored entries, including any not yet lazily
// expired.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
