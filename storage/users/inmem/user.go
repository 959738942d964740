// Package inmemusers provides a map-backed account repository for tests and
// local development.
package inmemusers

import (
	"sync"

	"github.com/kisanhq/kisan/core/user"
)

type repository struct {
	mu      sync.RWMutex
	table   map[int]*user.Account
	pkCount int
}

func NewRepository() user.Repository {
	return &repository{table: make(map[int]*user.Account)}
}

func (repo *repository) CheckEmailUniqueness(email string, excludedAccounts ...user.Account) error {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, acct := range repo.table {
		if acct.Email == email && !isExcluded(*acct, excludedAccounts) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *repository) CreateAccount(acct user.Account) (user.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.pkCount++
	acct.ID = repo.pkCount
	repo.table[acct.ID] = &acct
	return acct, nil
}

func (repo *repository) GetAccountByEmail(email string) (user.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, acct := range repo.table {
		if acct.Email == email {
			return *acct, nil
		}
	}
	return user.Account{}, user.ErrNotFound
}

func (repo *repository) QueryAllAccounts() ([]user.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	accounts := make([]user.Account, 0, len(repo.table))
	for _, acct := range repo.table {
		accounts = append(accounts, *acct)
	}
	return accounts, nil
}

func (repo *repository) UpdateAccount(acct user.Account) (user.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.table[acct.ID]; !ok {
		return user.Account{}, user.ErrNotFound
	}
	repo.table[acct.ID] = &acct
	return acct, nil
}

func isExcluded(acct user.Account, excluded []user.Account) bool {
	for _, ex := range excluded {
		if ex.ID == acct.ID {
			return true
		}
	}
	return false
}
