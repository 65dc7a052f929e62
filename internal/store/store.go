package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a flat key-value store holding one JSON document per key. Values
// are kept in compact form: Get returns exactly the compacted bytes given to
// Set.
type Store interface {
	Get(key string) (json.RawMessage, bool, error)
	Set(key string, value json.RawMessage) error
	Delete(key string) error
}

// File persists every key inside a single JSON object on disk.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a store backed by path. The file is created lazily on the
// first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path reports the backing file location.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(key string) (json.RawMessage, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return nil, false, err
	}
	raw, ok := entries[key]
	return raw, ok, nil
}

func (f *File) Set(key string, value json.RawMessage) error {
	compacted, err := compact(key, value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return err
	}
	entries[key] = compacted
	return f.write(entries)
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return f.write(entries)
}

func (f *File) load() (map[string]json.RawMessage, error) {
	entries := map[string]json.RawMessage{}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", f.path, err)
	}
	return entries, nil
}

func (f *File) write(entries map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	// Marshal keeps each raw value byte for byte; indenting would rewrite
	// them.
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return writeFileAtomic(f.path, data, 0o644)
}

// writeFileAtomic writes through a temp file in the same directory so a crash
// never leaves a truncated store behind.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Memory is an in-process store used by tests and one-shot CLI commands.
type Memory struct {
	mu      sync.Mutex
	entries map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]json.RawMessage{}}
}

func (m *Memory) Get(key string) (json.RawMessage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	return raw, ok, nil
}

func (m *Memory) Set(key string, value json.RawMessage) error {
	compacted, err := compact(key, value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = compacted
	return nil
}

// compact validates value and returns a compacted copy.
func compact(key string, value json.RawMessage) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return nil, fmt.Errorf("store: value for %q is not valid JSON: %w", key, err)
	}
	return json.RawMessage(buf.Bytes()), nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
