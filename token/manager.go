package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalid reports a token that failed parsing or signature
	// verification.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired reports a well-formed, correctly signed token whose expiry
	// has elapsed.
	ErrExpired = errors.New("token expired")
)

// Config holds signing parameters. The secret is loaded once at startup;
// rotation within a process lifetime is not supported.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Leeway time.Duration
}

// Claims is the identity payload carried inside a session token.
type Claims struct {
	UserID        string
	Username      string
	AccountNumber string
	Role          string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

type sessionClaims struct {
	Username      string `json:"username"`
	AccountNumber string `json:"accountNumber"`
	Role          string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens. Safe for concurrent use after
// construction.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < 16 {
		return nil, errors.New("hs256 secret must be at least 16 bytes")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: cfg}, nil
}

// Issue signs a token for c using the configured TTL. The IssuedAt and
// ExpiresAt fields of c are ignored; the Manager stamps its own.
func (m *Manager) Issue(c Claims) (string, error) {
	return m.IssueWithTTL(c, m.config.TTL)
}

// IssueWithTTL signs a token for c with an explicit lifetime.
func (m *Manager) IssueWithTTL(c Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}

	now := time.Now()
	claims := sessionClaims{
		Username:      c.Username,
		AccountNumber: c.AccountNumber,
		Role:          c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

// Verify checks the signature against the exact configured secret and that
// the expiry has not elapsed, then returns the embedded claims.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}

	out := &Claims{
		UserID:        claims.Subject,
		Username:      claims.Username,
		AccountNumber: claims.AccountNumber,
		Role:          claims.Role,
		ExpiresAt:     claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}

	return out, nil
}
