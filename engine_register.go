package payauth

import (
	"context"
	"errors"

	"github.com/swiftgate/payauth/internal"
	"github.com/swiftgate/payauth/internal/audit"
)

// Register creates a new customer account. Every field is validated against
// its whitelist before any store access; a generated account number is
// assigned after a bounded uniqueness search. Duplicate usernames surface as
// [ErrConflict].
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if e == nil || e.store == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}
	if !e.config.Account.RegistrationEnabled {
		return nil, ErrRegistrationDisabled
	}

	ip := clientIPFromContext(ctx)

	if err := e.validateRegistration(req); err != nil {
		e.metricInc(MetricRegisterRejected)
		e.emit(ctx, audit.EventRegisterFailure, "", ip, false, err, nil)
		return nil, err
	}

	// Cheap duplicate check before the bcrypt work. The store's unique
	// constraint remains the authority under concurrency.
	if _, err := e.store.FindByUsername(ctx, req.Username); err == nil {
		e.metricInc(MetricRegisterConflict)
		e.emit(ctx, audit.EventRegisterFailure, "", ip, false, ErrConflict, map[string]string{"username": req.Username})
		return nil, ErrConflict
	} else if !errors.Is(err, ErrAccountNotFound) {
		e.log.Error(ctx, "registration username check failed", "err", err)
		return nil, ErrInternal
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		e.log.Error(ctx, "password hashing failed", "err", err)
		return nil, ErrInternal
	}

	user, err := e.createWithGeneratedNumber(ctx, CreateUserInput{
		Name:         req.Name,
		IDNumber:     req.IDNumber,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         e.config.Account.DefaultRole,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			e.metricInc(MetricRegisterConflict)
			e.emit(ctx, audit.EventRegisterFailure, "", ip, false, ErrConflict, map[string]string{"username": req.Username})
			return nil, ErrConflict
		}
		e.log.Error(ctx, "registration create failed", "err", err)
		if errors.Is(err, ErrAccountNumberExhausted) {
			return nil, ErrAccountNumberExhausted
		}
		return nil, ErrInternal
	}

	e.metricInc(MetricRegisterSuccess)
	e.emit(ctx, audit.EventRegisterSuccess, user.ID, ip, true, nil, nil)

	return &RegisterResult{
		UserID:        user.ID,
		AccountNumber: user.AccountNumber,
	}, nil
}

// createWithGeneratedNumber retries account-number generation until Create
// succeeds or the retry budget runs out. A Create conflict on the username
// is terminal; a conflict after the number passed the existence pre-check is
// treated as a generation collision and retried.
func (e *Engine) createWithGeneratedNumber(ctx context.Context, input CreateUserInput) (UserRecord, error) {
	retries := e.config.Account.GenerationRetries

	for attempt := 0; attempt < retries; attempt++ {
		number, err := internal.NewAccountNumberCandidate(e.config.Account.NumberLength)
		if err != nil {
			return UserRecord{}, err
		}

		taken, err := e.store.ExistsByAccountNumber(ctx, number)
		if err != nil {
			return UserRecord{}, err
		}
		if taken {
			continue
		}

		input.AccountNumber = number
		user, err := e.store.Create(ctx, input)
		if err == nil {
			return user, nil
		}
		if errors.Is(err, ErrConflict) {
			// Lost the race on the account number, or the username was
			// taken between the pre-check and the insert. Re-check the
			// username so the caller gets a stable error.
			if _, lookupErr := e.store.FindByUsername(ctx, input.Username); lookupErr == nil {
				return UserRecord{}, ErrConflict
			}
			continue
		}
		return UserRecord{}, err
	}

	return UserRecord{}, ErrAccountNumberExhausted
}

func (e *Engine) validateRegistration(req RegisterRequest) error {
	if !ValidName(req.Name) {
		return ErrValidation
	}
	if !ValidIDNumber(req.IDNumber) {
		return ErrValidation
	}
	if !ValidUsername(req.Username) {
		return ErrValidation
	}
	// The policy cap is 72 bytes, but the pepper shares bcrypt's input
	// budget, so the usable length can be shorter.
	if !ValidPassword(req.Password) || len(req.Password) > e.hasher.MaxPlaintextBytes() {
		return ErrValidation
	}
	if req.Password != req.ConfirmPassword {
		return ErrValidation
	}
	return nil
}
