package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLitePrefix marks a DSN as a path to a SQLite database file.
const SQLitePrefix = "sqlite://"

// SQLiteRepositoryManager serves repositories from one SQLite file.
type SQLiteRepositoryManager struct {
	db       *sql.DB
	accounts *accounts.SQLiteRepository
}

// OpenSQLite opens the database at path with foreign keys enabled. The pool
// is limited to one connection so ":memory:" databases stay shared.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepositoryManager, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sqlOpen("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return &SQLiteRepositoryManager{db: db, accounts: accounts.NewSQLiteRepository(db)}, nil
}

func (m *SQLiteRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.SQLite)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, m.db, "sqlite"); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}
