package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// DefaultStateKey is the key the application document lives under.
const DefaultStateKey = "life-system-state"

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// DocumentStore is a key-value store of whole JSON documents.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte) error
	Delete(ctx context.Context, key string) error
	// UpdatedAt reports when key was last written.
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
	Close() error
}

// Open builds the store selected by backend under dataDir.
func Open(backend, dataDir string) (DocumentStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, "lifesys.db"))
	case BackendFile:
		return NewFileStore(filepath.Join(dataDir, "documents"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}
