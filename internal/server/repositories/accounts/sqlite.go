package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteRepository stores accounts in a single SQLite file. Timestamps are
// kept as UTC unix milliseconds.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, name, password, created, last_login, is_active FROM accounts
		 WHERE email = ?
		 `

	var (
		a         models.Account
		name      sql.NullString
		created   int64
		lastLogin sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&a.ID, &a.Email, &name, &a.Password, &created, &lastLogin, &a.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.Name = name.String
	a.CreatedAt = fromMillis(created)
	if lastLogin.Valid {
		t := fromMillis(lastLogin.Int64)
		a.LastLogin = &t
	}

	phones, err := r.findPhones(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Phones = phones

	return &a, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, a *models.Account) (*models.Account, error) {
	if a.IsNew() {
		return r.insert(ctx, a)
	}
	return r.update(ctx, a)
}

func (r *SQLiteRepository) insert(ctx context.Context, a *models.Account) (*models.Account, error) {
	saved := a.Clone()
	saved.ID = uuid.NewString()
	saved.CreatedAt = fromMillis(toMillis(r.now()))

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO accounts (id, email, name, password, created, last_login, is_active)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 `

		_, err := tx.ExecContext(ctx, query,
			saved.ID, saved.Email, nullString(saved.Name), saved.Password,
			toMillis(saved.CreatedAt), nullMillis(saved.LastLogin), saved.Active)
		if err != nil {
			return err
		}

		phoneQuery :=
			`INSERT INTO phones (account_id, number, city_code, country_code)
			 VALUES (?, ?, ?, ?)
			 `
		for _, p := range saved.Phones {
			if _, err := tx.ExecContext(ctx, phoneQuery, saved.ID, p.Number, p.CityCode, p.CountryCode); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateAccount, a.Email)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

func (r *SQLiteRepository) update(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`UPDATE accounts SET last_login = ?, is_active = ?
		 WHERE id = ?
		 `

	res, err := r.db.ExecContext(ctx, query, nullMillis(a.LastLogin), a.Active, a.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}

	saved := a.Clone()
	if saved.LastLogin != nil {
		t := fromMillis(toMillis(*saved.LastLogin))
		saved.LastLogin = &t
	}
	return saved, nil
}

func (r *SQLiteRepository) findPhones(ctx context.Context, accountID string) ([]models.Phone, error) {
	query :=
		`SELECT number, city_code, country_code FROM phones
		 WHERE account_id = ?
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var phones []models.Phone
	for rows.Next() {
		var p models.Phone
		if err := rows.Scan(&p.Number, &p.CityCode, &p.CountryCode); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return phones, nil
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3lib.SQLITE_CONSTRAINT || code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
}
