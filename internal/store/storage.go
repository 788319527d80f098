// Package store keeps small values persisted in a string key/value storage.
package store

import "sync"

// Storage is a string key/value backend. Subscribers are told about every
// successful Set.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Subscribe(fn func(key, value string)) (cancel func())
}

// Listeners is a set of change callbacks that Storage implementations can embed.
type Listeners struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(key, value string)
}

// Subscribe registers fn and returns a function that removes it.
func (l *Listeners) Subscribe(fn func(key, value string)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(key, value string))
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

// Notify calls every subscriber. Called without holding the storage's own lock.
func (l *Listeners) Notify(key, value string) {
	l.mu.Lock()
	fns := make([]func(key, value string), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(key, value)
	}
}

// MemoryStorage keeps values in a map. Used in tests and when no database is configured.
type MemoryStorage struct {
	Listeners
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	m.Notify(key, value)
	return nil
}
