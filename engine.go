package payauth

import (
	"context"
	"errors"

	"github.com/swiftgate/payauth/internal/audit"
	"github.com/swiftgate/payauth/internal/logging"
	"github.com/swiftgate/payauth/internal/rate"
	"github.com/swiftgate/payauth/password"
	"github.com/swiftgate/payauth/token"
)

// Engine orchestrates the auth core: credential verification, token
// issuance/verification, registration, and brute-force throttling. Engines
// are immutable after [Builder.Build] and safe for concurrent use.
type Engine struct {
	config  Config
	store   UserStore
	hasher  *password.Hasher
	tokens  *token.Manager
	limiter *rate.Limiter
	audit   *audit.Dispatcher
	metrics *Metrics
	log     logging.Logger
}

// Close flushes the audit dispatcher. Safe on a nil receiver.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// MetricsSnapshot returns a deep copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports audit events discarded due to a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Login authenticates credentials and issues a session token.
//
// Exactly one of req.Username or req.AccountNumber must be set. Input is
// validated against the whitelists before any store or crypto work; the
// brute-force limiter is consulted before credential verification and its
// counters reset on success. A lookup miss ([ErrAccountNotFound]) is
// reported distinctly from a password mismatch ([ErrInvalidPassword]).
func (e *Engine) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if e == nil || e.store == nil || e.hasher == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	identity, err := e.loginIdentity(req)
	if err != nil {
		return nil, err
	}
	ip := clientIPFromContext(ctx)

	if err := e.checkLimiter(ctx, identity, ip); err != nil {
		return nil, err
	}

	user, err := e.lookupIdentity(ctx, req)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			e.metricInc(MetricLoginNotFound)
			e.recordFailure(ctx, identity, ip)
			e.emit(ctx, audit.EventLoginNotFound, "", ip, false, err, map[string]string{"identifier": identity})
			return nil, ErrAccountNotFound
		}
		e.log.Error(ctx, "login lookup failed", "err", err)
		return nil, ErrInternal
	}

	// Deliberately expensive; runs without holding any shared lock.
	match, err := e.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		e.log.Error(ctx, "password verification failed", "user_id", user.ID, "err", err)
		return nil, ErrInternal
	}
	if !match {
		e.metricInc(MetricLoginFailure)
		e.recordFailure(ctx, identity, ip)
		e.emit(ctx, audit.EventLoginFailure, user.ID, ip, false, ErrInvalidPassword, nil)
		return nil, ErrInvalidPassword
	}

	tok, err := e.tokens.Issue(token.Claims{
		UserID:        user.ID,
		Username:      user.Username,
		AccountNumber: user.AccountNumber,
		Role:          string(user.Role),
	})
	if err != nil {
		e.log.Error(ctx, "token issuance failed", "user_id", user.ID, "err", err)
		return nil, ErrInternal
	}

	e.resetLimiter(ctx, identity, ip)
	e.metricInc(MetricLoginSuccess)
	e.emit(ctx, audit.EventLoginSuccess, user.ID, ip, true, nil, nil)

	return &LoginResult{
		Token:         tok,
		Role:          user.Role,
		Username:      user.Username,
		AccountNumber: user.AccountNumber,
	}, nil
}

// VerifyToken checks a bearer token and returns its claims. [ErrTokenExpired]
// is distinguished from [ErrTokenInvalid]; callers surface both as
// unauthenticated.
func (e *Engine) VerifyToken(ctx context.Context, tokenStr string) (*Claims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Verify(tokenStr)
	if err != nil {
		ip := clientIPFromContext(ctx)
		if errors.Is(err, token.ErrExpired) {
			e.metricInc(MetricTokenExpired)
			e.emit(ctx, audit.EventTokenRejected, "", ip, false, ErrTokenExpired, nil)
			return nil, ErrTokenExpired
		}
		e.metricInc(MetricTokenInvalid)
		e.emit(ctx, audit.EventTokenRejected, "", ip, false, ErrTokenInvalid, nil)
		return nil, ErrTokenInvalid
	}

	return &Claims{
		UserID:        claims.UserID,
		Username:      claims.Username,
		AccountNumber: claims.AccountNumber,
		Role:          Role(claims.Role),
		IssuedAt:      claims.IssuedAt,
		ExpiresAt:     claims.ExpiresAt,
	}, nil
}

// Authorize checks the claimed role against the role a route requires.
// Matching is exact; employees hold no implicit superset of customer rights.
func (e *Engine) Authorize(ctx context.Context, claims *Claims, required Role) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if claims == nil {
		return ErrTokenInvalid
	}
	if claims.Role != required {
		e.metricInc(MetricRoleDenied)
		e.emit(ctx, audit.EventRoleDenied, claims.UserID, clientIPFromContext(ctx), false, ErrForbidden, map[string]string{
			"required": string(required),
			"actual":   string(claims.Role),
		})
		return ErrForbidden
	}
	return nil
}

// Profile resolves the authenticated identity to its stored profile, without
// credential material.
func (e *Engine) Profile(ctx context.Context, userID string) (*Profile, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		e.log.Error(ctx, "profile lookup failed", "user_id", userID, "err", err)
		return nil, ErrInternal
	}

	return &Profile{
		ID:            user.ID,
		Name:          user.Name,
		IDNumber:      user.IDNumber,
		Username:      user.Username,
		AccountNumber: user.AccountNumber,
		Role:          user.Role,
		CreatedAt:     user.CreatedAt,
	}, nil
}

// loginIdentity validates the request shape and returns the identity key
// used for brute-force counting.
func (e *Engine) loginIdentity(req LoginRequest) (string, error) {
	if req.Password == "" {
		return "", ErrValidation
	}
	hasUsername := req.Username != ""
	hasAccount := req.AccountNumber != ""
	if hasUsername == hasAccount {
		// Zero or both identifiers supplied.
		return "", ErrValidation
	}
	if !ValidPassword(req.Password) || len(req.Password) > e.hasher.MaxPlaintextBytes() {
		return "", ErrValidation
	}
	if hasUsername {
		if !ValidUsername(req.Username) {
			return "", ErrValidation
		}
		return req.Username, nil
	}
	if !ValidAccountNumber(req.AccountNumber) {
		return "", ErrValidation
	}
	return req.AccountNumber, nil
}

func (e *Engine) lookupIdentity(ctx context.Context, req LoginRequest) (UserRecord, error) {
	if req.AccountNumber != "" {
		return e.store.FindByAccountNumber(ctx, req.AccountNumber)
	}
	return e.store.FindByUsername(ctx, req.Username)
}

func (e *Engine) checkLimiter(ctx context.Context, identity, ip string) error {
	if e.limiter == nil {
		return nil
	}

	err := e.limiter.Check(ctx, identity, ip)
	if err == nil {
		return nil
	}

	var limitErr *rate.LimitError
	if errors.As(err, &limitErr) {
		e.metricInc(MetricLoginRateLimited)
		e.emit(ctx, audit.EventLoginRateLimited, "", ip, false, ErrRateLimited, map[string]string{"identifier": identity})
		return &RateLimitError{NextValidRequest: limitErr.RetryAt}
	}

	// Counter backend down: fail closed on the throttle, not the login.
	e.log.Error(ctx, "brute-force limiter unavailable", "err", err)
	return ErrInternal
}

func (e *Engine) recordFailure(ctx context.Context, identity, ip string) {
	if e.limiter == nil {
		return
	}
	if err := e.limiter.RecordFailure(ctx, identity, ip); err != nil {
		e.log.Warn(ctx, "failed to record auth failure", "err", err)
	}
}

func (e *Engine) resetLimiter(ctx context.Context, identity, ip string) {
	if e.limiter == nil {
		return
	}
	if err := e.limiter.Reset(ctx, identity, ip); err != nil {
		e.log.Warn(ctx, "failed to reset auth counters", "err", err)
	}
}
