package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

// InMemoryRepositoryManager keeps everything in process memory; data is
// lost on restart.
type InMemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{accounts: accounts.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
