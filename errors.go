package payauth

import "errors"

var (
	// ErrValidation reports malformed or missing input. Rejected before any
	// store or token work happens.
	ErrValidation = errors.New("invalid input")
	// ErrAccountNotFound reports that no identity matches the supplied
	// username or account number.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidPassword reports a password mismatch for an existing identity.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrTokenInvalid reports a token that failed parsing or signature
	// verification.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired reports a well-formed token whose expiry has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrForbidden reports a role mismatch on a role-gated operation.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict reports a username or account-number uniqueness violation.
	ErrConflict = errors.New("duplicate identity")
	// ErrRateLimited reports that the brute-force limiter rejected the attempt.
	// Callers read the retry time from [RateLimitError].
	ErrRateLimited = errors.New("too many failed attempts")
	// ErrRegistrationDisabled reports that self-registration is switched off.
	ErrRegistrationDisabled = errors.New("registration disabled")
	// ErrAccountNumberExhausted reports that no unique account number was
	// found within the retry bound.
	ErrAccountNumberExhausted = errors.New("account number generation exhausted")
	// ErrInternal reports an unexpected store or crypto failure. The cause is
	// logged, never surfaced to clients.
	ErrInternal = errors.New("internal error")
	// ErrEngineNotReady reports use of an Engine that was not built.
	ErrEngineNotReady = errors.New("engine not initialized")
)
