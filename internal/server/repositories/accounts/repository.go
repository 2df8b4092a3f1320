// Package accounts is the credential store: lookup by email and save, with
// email uniqueness enforced by the store itself.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository persists accounts together with their phones.
//
// FindByEmail returns common.ErrorNotFound when no account has the email.
// Save inserts an account that has no ID yet (assigning ID and CreatedAt)
// and updates an existing one otherwise. Inserting a second account with an
// email already stored fails with common.ErrDuplicateAccount.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Save(ctx context.Context, a *models.Account) (*models.Account, error)
}
