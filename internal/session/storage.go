// Package session provides the key-value storage holding the signed-in user,
// the server-side equivalent of the browser's localStorage.
package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"billed/internal/core"
)

// UserKey is the storage key holding the JSON encoded core.User.
const UserKey = "user"

// Storage is a string key-value store.
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string)
	RemoveItem(key string)
}

// MemoryStorage is a mutex-guarded map implementing Storage.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (s *MemoryStorage) GetItem(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *MemoryStorage) SetItem(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

func (s *MemoryStorage) RemoveItem(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// CurrentUser decodes the user stored under UserKey. A missing or unreadable
// entry reports false.
func CurrentUser(s Storage) (core.User, bool) {
	if s == nil {
		return core.User{}, false
	}
	raw, ok := s.GetItem(UserKey)
	if !ok || raw == "" {
		return core.User{}, false
	}
	var u core.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return core.User{}, false
	}
	return u, true
}

// SetCurrentUser stores u under UserKey.
func SetCurrentUser(s Storage, u core.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	s.SetItem(UserKey, string(b))
	return nil
}
