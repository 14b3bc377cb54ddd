package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get and GetInfo when no file exists at the key
var ErrNotFound = errors.New("file not found")

// FileInfo contains information about a stored file
type FileInfo struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Storage defines the file operations the snapshot loader needs.
// Snapshot files are flat: keys are file names, no directories.
type Storage interface {
	// Put stores content at the given key
	Put(ctx context.Context, key string, content []byte) error

	// Get retrieves content from the given key
	Get(ctx context.Context, key string) ([]byte, error)

	// GetInfo retrieves file information without content
	GetInfo(ctx context.Context, key string) (*FileInfo, error)

	// Exists checks if a file exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// List returns the keys starting with prefix, sorted by name
	List(ctx context.Context, prefix string) ([]string, error)
}
