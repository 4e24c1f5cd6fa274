// Package storage is the client's persistent key-value store. Values are
// kept as JSON documents under string keys, the way a browser keeps
// per-origin local storage, and every component receives the Store it
// works against instead of reaching for a global.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store is the raw key-value contract. Implementations must be safe for
// concurrent use.
type Store interface {
	// GetRaw returns the stored JSON for key and whether it was present.
	GetRaw(key string) ([]byte, bool)
	// SetRaw stores value under key. value must be valid JSON.
	SetRaw(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// ErrInvalidJSON is returned by SetRaw when the value is not a JSON document.
var ErrInvalidJSON = errors.New("value is not valid JSON")

var jsonNull = []byte("null")

// Get decodes the value stored under key into T. It reports false when the
// key is absent, holds null, or cannot be decoded into T; corrupt content is
// treated as absent and never returned as an error.
func Get[T any](s Store, key string) (T, bool) {
	var v T
	raw, ok := s.GetRaw(key)
	if !ok || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// Set encodes value and stores it under key. A value that encodes to JSON
// null (nil, nil pointer, nil slice or map) deletes the key.
func Set(s Store, key string, value any) error {
	if value == nil {
		return s.Delete(key)
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if bytes.Equal(b, jsonNull) {
		return s.Delete(key)
	}
	return s.SetRaw(key, b)
}

// GetList decodes the first of keys that holds a JSON array, one element
// at a time. Elements that do not decode into T are left out of items and
// counted in skipped. Keys whose value is not an array are treated as
// absent. found is false when no key holds an array.
func GetList[T any](s Store, keys ...string) (items []T, skipped int, found bool) {
	for _, k := range keys {
		raw, ok := s.GetRaw(k)
		if !ok {
			continue
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
			continue
		}
		items = make([]T, 0, len(elems))
		for _, e := range elems {
			var v T
			if err := json.Unmarshal(e, &v); err != nil {
				skipped++
				continue
			}
			items = append(items, v)
		}
		return items, skipped, true
	}
	return nil, 0, false
}

// IsNonEmptyList reports whether raw is a JSON array with at least one element.
func IsNonEmptyList(raw []byte) bool {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	return len(items) > 0
}

// MemoryStore keeps values in memory only.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) GetRaw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

// SetRaw stores a copy of value. Unlike FileStore it accepts any bytes, so
// tests can plant corrupt entries.
func (m *MemoryStore) SetRaw(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FileStore persists all keys in a single JSON object on disk. Every
// mutation is written through before it returns.
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string]json.RawMessage
}

// OpenFileStore loads the store at path. A missing file yields an empty
// store; an unreadable JSON document is treated as empty as well and will be
// replaced on the next write.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, data: make(map[string]json.RawMessage)}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	if err := json.Unmarshal(b, &fs.data); err != nil || fs.data == nil {
		fs.data = make(map[string]json.RawMessage)
	}
	return fs, nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) GetRaw(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (f *FileStore) SetRaw(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("set %q: %w", key, ErrInvalidJSON)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	f.data[key] = append(json.RawMessage(nil), value...)
	if err := f.save(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	if !had {
		return nil
	}
	delete(f.data, key)
	if err := f.save(); err != nil {
		f.data[key] = prev
		return err
	}
	return nil
}

// save writes to a temp file in the same directory and renames it over the
// store. Callers hold f.mu.
func (f *FileStore) save() error {
	b, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".shipdash-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
