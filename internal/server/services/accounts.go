// Package services contains server-side business logic. This file implements
// AccountService, which runs the registration and login flows on top of the
// account repository, the password cipher and the token issuer.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

// PasswordCipher protects passwords reversibly.
type PasswordCipher interface {
	Protect(plaintext string) (string, error)
	Recover(protected string) (string, error)
}

// TokenIssuer mints a bearer token for an account email.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// LoginResult is what a successful login hands back: the updated account
// (with its fresh token) and the recovered plaintext password.
type LoginResult struct {
	Account  *models.Account
	Password string
}

// AccountService provides account operations:
// - Register: create an account and issue its first token
// - Login: reissue a token for an already authenticated principal
type AccountService struct {
	repo   accounts.Repository
	cipher PasswordCipher
	issuer TokenIssuer
	log    logging.Logger
	now    func() time.Time
}

// NewAccountService wires the service. A nil logger discards output.
func NewAccountService(repo accounts.Repository, cipher PasswordCipher, issuer TokenIssuer, log logging.Logger) *AccountService {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &AccountService{
		repo:   repo,
		cipher: cipher,
		issuer: issuer,
		log:    log,
		now:    time.Now,
	}
}

// Register creates a new account from c. If the email is already taken it
// fails with common.ErrDuplicateAccount before protecting the password or
// issuing any token.
func (s *AccountService) Register(ctx context.Context, c *models.Candidate) (*models.Account, error) {
	_, err := s.repo.FindByEmail(ctx, c.Email)
	switch {
	case err == nil:
		s.log.Info(ctx, "registration rejected, email taken", "email", c.Email)
		return nil, fmt.Errorf("%w with email: %s", common.ErrDuplicateAccount, c.Email)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("%w: lookup account: %w", common.ErrorInternal, err)
	}

	protected, err := s.cipher.Protect(c.Password)
	if err != nil {
		return nil, fmt.Errorf("protect password: %w", err)
	}

	token, err := s.issuer.Issue(c.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %w", common.ErrorInternal, err)
	}

	account := &models.Account{
		Email:    c.Email,
		Name:     c.Name,
		Password: protected,
		Phones:   c.Phones,
		Active:   true,
		Token:    token,
	}

	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return nil, fmt.Errorf("%w with email: %s", common.ErrDuplicateAccount, c.Email)
		}
		return nil, fmt.Errorf("%w: save account: %w", common.ErrorInternal, err)
	}
	saved.Token = token

	s.log.Info(ctx, "account registered", "email", saved.Email, "id", saved.ID)
	return saved, nil
}

// Login reissues a token for the principal's account, stamps the login time
// and returns the account together with its recovered password.
//
// The principal comes from an accepted token, so a missing account means the
// store lost data; it is reported as common.ErrorInternal.
func (s *AccountService) Login(ctx context.Context, p *auth.Principal) (*LoginResult, error) {
	if p == nil || p.Subject == "" {
		return nil, common.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, p.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "authenticated subject has no account", "email", p.Subject)
			return nil, fmt.Errorf("%w: no account for %s", common.ErrorInternal, p.Subject)
		}
		return nil, fmt.Errorf("%w: lookup account: %w", common.ErrorInternal, err)
	}

	token, err := s.issuer.Issue(account.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %w", common.ErrorInternal, err)
	}

	now := s.now()
	account.Token = token
	account.LastLogin = &now

	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%w: save account: %w", common.ErrorInternal, err)
	}
	saved.Token = token

	password, err := s.cipher.Recover(saved.Password)
	if err != nil {
		return nil, fmt.Errorf("recover password: %w", err)
	}

	s.log.Info(ctx, "account logged in", "email", saved.Email)
	return &LoginResult{Account: saved, Password: password}, nil
}
