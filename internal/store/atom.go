package store

import "log"

// Atom is a single value persisted under one key. The in-memory value is
// authoritative: a failed write is logged and the new value is kept.
type Atom[T any] struct {
	storage Storage
	key     string
	initial T
	value   T
	encode  func(T) (string, error)
	decode  func(string) (T, error)
}

// NewAtom loads key from storage, falling back to initial when the key is
// missing, unreadable or fails to decode.
func NewAtom[T any](storage Storage, key string, initial T, encode func(T) (string, error), decode func(string) (T, error)) *Atom[T] {
	a := &Atom[T]{
		storage: storage,
		key:     key,
		initial: initial,
		value:   initial,
		encode:  encode,
		decode:  decode,
	}

	raw, ok, err := storage.Get(key)
	switch {
	case err != nil:
		log.Printf("Failed to read %q from storage, using default: %v", key, err)
	case !ok:
	default:
		v, err := decode(raw)
		if err != nil {
			log.Printf("Discarding malformed %q: %v", key, err)
			break
		}
		a.value = v
	}
	return a
}

// NewStringAtom persists a string-kinded value as-is. parse validates stored values.
func NewStringAtom[T ~string](storage Storage, key string, initial T, parse func(string) (T, error)) *Atom[T] {
	return NewAtom(storage, key, initial,
		func(v T) (string, error) { return string(v), nil },
		parse)
}

// Get returns the current value.
func (a *Atom[T]) Get() T {
	return a.value
}

// Set replaces the value and writes it through to storage.
func (a *Atom[T]) Set(v T) {
	a.value = v
	raw, err := a.encode(v)
	if err != nil {
		log.Printf("Failed to encode %q: %v", a.key, err)
		return
	}
	if err := a.storage.Set(a.key, raw); err != nil {
		log.Printf("Failed to persist %q, keeping in-memory value: %v", a.key, err)
	}
}

// Reset restores the initial value.
func (a *Atom[T]) Reset() {
	a.Set(a.initial)
}
