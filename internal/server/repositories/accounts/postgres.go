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
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE Postgres reports for a unique index clash.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, name, password, created, last_login, is_active FROM accounts
		 WHERE email = $1
		 `

	var (
		a         models.Account
		name      sql.NullString
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&a.ID, &a.Email, &name, &a.Password, &a.CreatedAt, &lastLogin, &a.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.Name = name.String
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLogin = &t
	}

	phones, err := findPhones(ctx, r.db, a.ID)
	if err != nil {
		return nil, err
	}
	a.Phones = phones

	return &a, nil
}

func (r *PostgresRepository) Save(ctx context.Context, a *models.Account) (*models.Account, error) {
	if a.IsNew() {
		return r.insert(ctx, a)
	}
	return r.update(ctx, a)
}

func (r *PostgresRepository) insert(ctx context.Context, a *models.Account) (*models.Account, error) {
	saved := a.Clone()

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO accounts (email, name, password, last_login, is_active)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created
			 `

		err := tx.QueryRowContext(ctx, query,
			saved.Email, nullString(saved.Name), saved.Password, nullTime(saved.LastLogin), saved.Active).
			Scan(&saved.ID, &saved.CreatedAt)
		if err != nil {
			return err
		}

		return insertPhones(ctx, tx, saved.ID, saved.Phones)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateAccount, a.Email)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

// update writes the mutable login metadata. Email, password, created and
// phones are fixed at registration.
func (r *PostgresRepository) update(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`UPDATE accounts SET last_login = $1, is_active = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, nullTime(a.LastLogin), a.Active, a.ID)
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

	return a.Clone(), nil
}

func insertPhones(ctx context.Context, tx dbx.DBTX, accountID string, phones []models.Phone) error {
	query :=
		`INSERT INTO phones (account_id, number, city_code, country_code)
		 VALUES ($1, $2, $3, $4)
		 `

	for _, p := range phones {
		if _, err := tx.ExecContext(ctx, query, accountID, p.Number, p.CityCode, p.CountryCode); err != nil {
			return err
		}
	}
	return nil
}

func findPhones(ctx context.Context, db dbx.DBTX, accountID string) ([]models.Phone, error) {
	query :=
		`SELECT number, city_code, country_code FROM phones
		 WHERE account_id = $1
		 ORDER BY id
		 `

	rows, err := db.QueryContext(ctx, query, accountID)
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

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
