// Package kvstore provides the durable key/value capability the dataset
// store persists into. Backends: in-memory, one JSON file per key, and a
// SQLite table.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kvstore: key not found")

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// KV is a minimal blob store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Directory  string
	SQLitePath string
}

// dataDir returns dir, or ~/.budget-dashboard/data when dir is empty.
func dataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".budget-dashboard", "data"), nil
}

// Open creates the backend named in opts. Without a SQLitePath the
// database lives in the data directory.
func Open(opts Options) (KV, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return NewFile(opts.Directory)
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			dir, err := dataDir(opts.Directory)
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "budget.db")
		}
		return NewSQLite(path)
	}
	return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}

// Memory is an in-process KV used in tests and for throwaway sessions.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
	// FailWrites makes Put return an error, for exercising write failures.
	FailWrites bool
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errors.New("kvstore: memory store is read-only")
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
