package payauth

import (
	"context"
	"fmt"
	"time"
)

// Role is the access level carried in session-token claims. Comparison is by
// exact string match; employee is not a superset of customer.
type Role string

const (
	// RoleCustomer is the least-privileged role, assigned on registration.
	RoleCustomer Role = "customer"
	// RoleEmployee gates the payment-verification surface.
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleEmployee
}

// UserRecord is the persistent identity record held by a [UserStore].
// Username and AccountNumber are each globally unique.
type UserRecord struct {
	ID            string
	Name          string
	IDNumber      string
	Username      string
	AccountNumber string
	PasswordHash  string
	Role          Role
	CreatedAt     time.Time
}

// Profile is a UserRecord stripped of credential material, returned to
// authenticated callers.
type Profile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	IDNumber      string    `json:"idNumber"`
	Username      string    `json:"username"`
	AccountNumber string    `json:"accountNumber"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateUserInput is the input for [UserStore.Create]. The password arrives
// already hashed; stores never see plaintext.
type CreateUserInput struct {
	Name          string
	IDNumber      string
	Username      string
	AccountNumber string
	PasswordHash  string
	Role          Role
}

// UserStore is the credential-lookup interface the Engine depends on. It may
// be backed by Postgres or an in-memory map (see internal/stores).
//
// Implementations return [ErrAccountNotFound] when no record matches and
// [ErrConflict] when Create violates a uniqueness constraint. Create must
// enforce uniqueness atomically at the storage layer; the Engine's pre-check
// via ExistsByAccountNumber only shrinks the retry window.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (UserRecord, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (UserRecord, error)
	FindByID(ctx context.Context, id string) (UserRecord, error)
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
	Create(ctx context.Context, input CreateUserInput) (UserRecord, error)
}

// Claims is the verified content of a session token, attached to the request
// context by middleware.Authenticate. The server treats tokens as untrusted
// input and re-verifies on every request; Claims values are request-scoped.
type Claims struct {
	UserID        string
	Username      string
	AccountNumber string
	Role          Role
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

// LoginRequest carries login credentials. Exactly one of Username or
// AccountNumber must be set.
type LoginRequest struct {
	Username      string
	AccountNumber string
	Password      string
}

// LoginResult is returned on successful authentication. The token is an
// opaque string owned by the client; the server never stores it.
type LoginResult struct {
	Token         string
	Role          Role
	Username      string
	AccountNumber string
}

// RegisterRequest carries the self-registration form.
type RegisterRequest struct {
	Name            string
	IDNumber        string
	Username        string
	Password        string
	ConfirmPassword string
}

// RegisterResult reports the generated account number for a new identity.
type RegisterResult struct {
	UserID        string
	AccountNumber string
}

// RateLimitError wraps [ErrRateLimited] with the computed time at which the
// next attempt will be accepted.
type RateLimitError struct {
	NextValidRequest time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry after %s", e.NextValidRequest.Format(time.RFC3339))
}

// Unwrap makes errors.Is(err, ErrRateLimited) hold for RateLimitError values.
func (e *RateLimitError) Unwrap() error { return ErrRateLimited }
