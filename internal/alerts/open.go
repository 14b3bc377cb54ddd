package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/pricecomparator/price-service/internal/database"
)

// ErrUnknownBackend is returned by Open for a backend name it does not know.
// It is a configuration fault, not a rejected alert.
var ErrUnknownBackend = errors.New("unknown alert store backend")

// Options selects and configures an alert store backend.
type Options struct {
	Backend    Backend
	SQLitePath string
	Database   database.Config // postgres only
}

// Open creates the store named by opts.Backend. The postgres backend connects
// the shared database pool; closing the store does not close the pool.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	case BackendPostgres:
		if err := database.Connect(ctx, opts.Database); err != nil {
			return nil, err
		}
		return NewPostgresStore(ctx, database.Pool())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
