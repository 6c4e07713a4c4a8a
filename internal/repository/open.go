package repository

import (
	"context"
	"fmt"

	"menud/internal/repository/postgres"
	"menud/internal/repository/sqlite"
)

// Supported store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	_ Repository = (*sqlite.Repository)(nil)
	_ Repository = (*postgres.Repository)(nil)
)

// Options selects and locates the backing store
type Options struct {
	Driver string
	Path   string // SQLite file path
	DSN    string // PostgreSQL connection string
	Reset  bool   // drop and recreate the schema after opening
}

// Open creates the repository for the configured driver
func Open(ctx context.Context, opts Options) (Repository, error) {
	var (
		repo Repository
		err  error
	)

	switch opts.Driver {
	case "", DriverSQLite:
		repo, err = sqlite.New(opts.Path)
	case DriverPostgres:
		repo, err = postgres.New(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	if opts.Reset {
		if err := repo.Reset(ctx); err != nil {
			repo.Close()
			return nil, fmt.Errorf("reset store: %w", err)
		}
	}

	return repo, nil
}
