package storage

import (
	"encoding/json"
	"fmt"
)

// Slot is a typed view of one key whose value is JSON-encoded.
type Slot[T any] struct {
	store Store
	key   string
}

// NewSlot returns a Slot over key in store.
func NewSlot[T any](store Store, key string) *Slot[T] {
	return &Slot[T]{store: store, key: key}
}

// Key returns the underlying key.
func (s *Slot[T]) Key() string {
	return s.key
}

// Load decodes the stored value.
// ok is false when the key is absent. Decode failures wrap ErrMalformed.
func (s *Slot[T]) Load() (T, bool, error) {
	var v T
	raw, ok, err := s.store.Get(s.key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero, false, fmt.Errorf("%s: %w: %v", s.key, ErrMalformed, err)
	}
	return v, true, nil
}

// Save encodes v and replaces the stored value.
func (s *Slot[T]) Save(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %w", s.key, err)
	}
	return s.store.Set(s.key, string(data))
}

// Clear removes the key.
func (s *Slot[T]) Clear() error {
	return s.store.Remove(s.key)
}

// flagValue marks a set Flag.
const flagValue = "1"

// Flag is a presence marker stored under one key.
type Flag struct {
	store Store
	key   string
}

// NewFlag returns a Flag over key in store.
func NewFlag(store Store, key string) *Flag {
	return &Flag{store: store, key: key}
}

// IsSet reports whether the flag is set.
func (f *Flag) IsSet() (bool, error) {
	v, ok, err := f.store.Get(f.key)
	if err != nil {
		return false, err
	}
	return ok && v == flagValue, nil
}

// Set sets the flag.
func (f *Flag) Set() error {
	return f.store.Set(f.key, flagValue)
}

// Clear removes the flag.
func (f *Flag) Clear() error {
	return f.store.Remove(f.key)
}
