// Package kvstore is the local durable key/value substrate for every cache and queue.
// Values are strings holding serialized structured data.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("kvstore: key not found")
	// ErrMalformed marks a stored blob that cannot be decoded.
	ErrMalformed = errors.New("kvstore: malformed value")
)

//go:generate mockgen -source=store.go -destination=../mocks/kvstore/mock_store.go -package=mock_kvstore

// Store is a string-keyed store of serialized values.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// CloseableStore is a Store backed by a resource that must be released.
type CloseableStore interface {
	Store
	Close() error
}

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// Options selects and configures a backend.
type Options struct {
	Driver string
	// Path is a directory for file and badger, and a database file for sqlite.
	Path   string
	Logger *slog.Logger
}

// Open opens the backend named by opts.Driver.
func Open(opts Options) (CloseableStore, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverFile:
		store, err := NewFileStore(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("NewFileStore(%s) > %w", opts.Path, err)
		}
		return store, nil
	case DriverSQLite:
		store, err := OpenSQLiteStore(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("OpenSQLiteStore(%s) > %w", opts.Path, err)
		}
		return store, nil
	case DriverBadger:
		cfg := DefaultBadgerConfig()
		cfg.Path = opts.Path
		cfg.Logger = opts.Logger
		store, err := OpenBadgerStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("OpenBadgerStore(%s) > %w", opts.Path, err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage driver: %s", opts.Driver)
}
