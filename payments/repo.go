package payments

import (
	"context"
	"sort"
	"sync"
)

// Repo stores payment instructions. Implementations return [ErrNotFound]
// for unknown ids and [ErrStatusConflict] when a decision races another.
type Repo interface {
	Create(ctx context.Context, payment Payment) error
	FindByID(ctx context.Context, id string) (Payment, error)
	ListPending(ctx context.Context) ([]Payment, error)
	Decide(ctx context.Context, id string, status Status, employeeID string) (Payment, error)
}

// MemoryRepo is a map-backed Repo for development and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	payments map[string]Payment
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		payments: map[string]Payment{},
	}
}

func (r *MemoryRepo) Create(_ context.Context, payment Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[payment.ID] = payment
	return nil
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payment, ok := r.payments[id]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return payment, nil
}

func (r *MemoryRepo) ListPending(_ context.Context) ([]Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pending := make([]Payment, 0)
	for _, payment := range r.payments {
		if payment.Status == StatusPending {
			pending = append(pending, payment)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}

// Decide applies the status transition under the write lock, so two
// employees deciding the same payment cannot both win.
func (r *MemoryRepo) Decide(_ context.Context, id string, status Status, employeeID string) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok {
		return Payment{}, ErrNotFound
	}
	if err := payment.Decide(status, employeeID); err != nil {
		return Payment{}, err
	}
	r.payments[id] = payment
	return payment, nil
}
