package stores

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	payauth "github.com/swiftgate/payauth"
)

// Memory is a concurrency-safe in-memory [payauth.UserStore]. Reads take a
// shared lock; Create serializes under the write lock so the uniqueness
// check and the insert are a single atomic step.
type Memory struct {
	mu              sync.RWMutex
	byUsername      map[string]payauth.UserRecord
	byAccountNumber map[string]payauth.UserRecord
	byID            map[string]payauth.UserRecord
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byUsername:      make(map[string]payauth.UserRecord),
		byAccountNumber: make(map[string]payauth.UserRecord),
		byID:            make(map[string]payauth.UserRecord),
	}
}

// FindByUsername implements [payauth.UserStore].
func (m *Memory) FindByUsername(_ context.Context, username string) (payauth.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byUsername[username]
	if !ok {
		return payauth.UserRecord{}, payauth.ErrAccountNotFound
	}
	return user, nil
}

// FindByAccountNumber implements [payauth.UserStore].
func (m *Memory) FindByAccountNumber(_ context.Context, accountNumber string) (payauth.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byAccountNumber[accountNumber]
	if !ok {
		return payauth.UserRecord{}, payauth.ErrAccountNotFound
	}
	return user, nil
}

// FindByID implements [payauth.UserStore].
func (m *Memory) FindByID(_ context.Context, id string) (payauth.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byID[id]
	if !ok {
		return payauth.UserRecord{}, payauth.ErrAccountNotFound
	}
	return user, nil
}

// ExistsByAccountNumber implements [payauth.UserStore].
func (m *Memory) ExistsByAccountNumber(_ context.Context, accountNumber string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byAccountNumber[accountNumber]
	return ok, nil
}

// Create implements [payauth.UserStore]. Uniqueness is decided under the
// write lock, never by a caller pre-check.
func (m *Memory) Create(_ context.Context, input payauth.CreateUserInput) (payauth.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byUsername[input.Username]; exists {
		return payauth.UserRecord{}, payauth.ErrConflict
	}
	if _, exists := m.byAccountNumber[input.AccountNumber]; exists {
		return payauth.UserRecord{}, payauth.ErrConflict
	}

	user := payauth.UserRecord{
		ID:            uuid.NewString(),
		Name:          input.Name,
		IDNumber:      input.IDNumber,
		Username:      input.Username,
		AccountNumber: input.AccountNumber,
		PasswordHash:  input.PasswordHash,
		Role:          input.Role,
		CreatedAt:     time.Now().UTC(),
	}

	m.byUsername[user.Username] = user
	m.byAccountNumber[user.AccountNumber] = user
	m.byID[user.ID] = user

	return user, nil
}
