package repomanager

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

// RepositoryManager owns the storage backend and vends the repositories
// built on it.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	Close() error
}

// Open picks the backend from dsn: an empty dsn yields the in-memory store,
// "sqlite://<path>" a SQLite file, and anything else is treated as a
// PostgreSQL connection string.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewInMemoryRepositoryManager(), nil
	}
	if path, ok := strings.CutPrefix(dsn, SQLitePrefix); ok {
		m, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	m, err := OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return m, nil
}
