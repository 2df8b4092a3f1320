package accounts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. It is used when no
// database is configured and in tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*models.Account
	byID    map[string]string
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byEmail: make(map[string]*models.Account),
		byID:    make(map[string]string),
		now:     time.Now,
	}
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a.Clone(), nil
}

func (r *MemoryRepository) Save(_ context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.IsNew() {
		if _, exists := r.byEmail[a.Email]; exists {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateAccount, a.Email)
		}

		saved := a.Clone()
		saved.ID = uuid.NewString()
		saved.CreatedAt = r.now()
		saved.Token = ""

		r.byEmail[saved.Email] = saved
		r.byID[saved.ID] = saved.Email

		out := saved.Clone()
		out.Token = a.Token
		return out, nil
	}

	email, ok := r.byID[a.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	stored := r.byEmail[email]
	updated := stored.Clone()
	updated.LastLogin = a.Clone().LastLogin
	updated.Active = a.Active
	r.byEmail[email] = updated

	out := updated.Clone()
	out.Token = a.Token
	return out, nil
}

// Len returns the number of stored accounts.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}
