package store

import (
	"fmt"
	"log"
	"maps"
)

// Map is a set of string fields, each persisted under prefix+field.
type Map struct {
	storage Storage
	prefix  string
	initial map[string]string
	values  map[string]string
}

// NewMap loads every field of initial from storage. Fields that are missing
// or unreadable keep their initial value.
func NewMap(storage Storage, prefix string, initial map[string]string) *Map {
	m := &Map{
		storage: storage,
		prefix:  prefix,
		initial: maps.Clone(initial),
		values:  maps.Clone(initial),
	}
	for field := range initial {
		v, ok, err := storage.Get(prefix + field)
		if err != nil {
			log.Printf("Failed to read %q from storage, using default: %v", prefix+field, err)
			continue
		}
		if ok {
			m.values[field] = v
		}
	}
	return m
}

// Keys returns the storage keys of every field.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.initial))
	for field := range m.initial {
		keys = append(keys, m.prefix+field)
	}
	return keys
}

// Get returns a copy of every field.
func (m *Map) Get() map[string]string {
	return maps.Clone(m.values)
}

// Value returns one field.
func (m *Map) Value(field string) string {
	return m.values[field]
}

// SetKey updates a single field and leaves the others alone.
func (m *Map) SetKey(field, value string) error {
	if _, ok := m.initial[field]; !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	m.values[field] = value
	if err := m.storage.Set(m.prefix+field, value); err != nil {
		log.Printf("Failed to persist %q, keeping in-memory value: %v", m.prefix+field, err)
	}
	return nil
}

// Set updates every field present in values.
func (m *Map) Set(values map[string]string) error {
	for field := range values {
		if _, ok := m.initial[field]; !ok {
			return fmt.Errorf("unknown field %q", field)
		}
	}
	for field, v := range values {
		m.SetKey(field, v)
	}
	return nil
}

// Reset restores the initial fields.
func (m *Map) Reset() {
	m.Set(m.initial)
}
