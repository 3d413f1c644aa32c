package payauth

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full engine configuration. Instances are populated once at
// startup (defaults, then environment overlay) and treated as immutable.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	Limiter  LimiterConfig
	Account  AccountConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

// TokenConfig holds session-token parameters. Secret is the process-wide
// HMAC signing secret, loaded once at startup and never rotated within a
// process lifetime.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// PasswordConfig holds hashing parameters. Pepper is a server-held secret
// concatenated to the plaintext before hashing; it is never stored per-user,
// unlike the salt embedded in the hash output.
type PasswordConfig struct {
	Pepper string
	Cost   int
}

// LimiterConfig tunes the brute-force limiter. Each scope allows a number of
// free retries, then enforces a cooldown that doubles per failure from
// MinWait up to MaxWait. Counters expire after Lifetime.
type LimiterConfig struct {
	Enabled bool

	IPFreeRetries int
	IPMinWait     time.Duration
	IPMaxWait     time.Duration

	IdentityFreeRetries int
	IdentityMinWait     time.Duration
	IdentityMaxWait     time.Duration

	Lifetime time.Duration
}

// AccountConfig controls self-registration and account-number generation.
type AccountConfig struct {
	RegistrationEnabled bool
	DefaultRole         Role
	NumberLength        int
	GenerationRetries   int
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// ServerConfig holds HTTP bind settings consumed by cmd/payauth-server.
type ServerConfig struct {
	ListenAddr string
}

// DatabaseConfig selects the user/payment store backend. An empty DSN means
// the in-memory store.
type DatabaseConfig struct {
	DSN string
}

// RedisConfig selects the brute-force counter backend. An empty Addr makes
// cmd/payauth-server start an embedded miniredis, for development only.
type RedisConfig struct {
	Addr     string
	Password string
}

// DefaultConfig returns the canonical deployment defaults: one password
// policy and one token lifetime, regardless of store backend.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL: 8 * time.Hour,
		},
		Password: PasswordConfig{
			Cost: 12,
		},
		Limiter: LimiterConfig{
			Enabled:             true,
			IPFreeRetries:       3,
			IPMinWait:           5 * time.Minute,
			IPMaxWait:           time.Hour,
			IdentityFreeRetries: 5,
			IdentityMinWait:     10 * time.Minute,
			IdentityMaxWait:     2 * time.Hour,
			Lifetime:            24 * time.Hour,
		},
		Account: AccountConfig{
			RegistrationEnabled: true,
			DefaultRole:         RoleCustomer,
			NumberLength:        10,
			GenerationRetries:   5,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{Enabled: true},
		Server:  ServerConfig{ListenAddr: ":5001"},
	}
}

// FromEnv overlays PAYAUTH_-prefixed environment variables onto the defaults.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("PAYAUTH_JWT_SECRET"); v != "" {
		cfg.Token.Secret = []byte(v)
	}
	if v := os.Getenv("PAYAUTH_PASSWORD_PEPPER"); v != "" {
		cfg.Password.Pepper = v
	}
	if v := os.Getenv("PAYAUTH_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("PAYAUTH_TOKEN_TTL: %w", err)
		}
		cfg.Token.TTL = ttl
	}
	if v := os.Getenv("PAYAUTH_BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("PAYAUTH_BCRYPT_COST: %w", err)
		}
		cfg.Password.Cost = cost
	}
	if v := os.Getenv("PAYAUTH_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("PAYAUTH_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("PAYAUTH_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("PAYAUTH_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("PAYAUTH_REGISTRATION_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("PAYAUTH_REGISTRATION_ENABLED: %w", err)
		}
		cfg.Account.RegistrationEnabled = enabled
	}
	if v := os.Getenv("PAYAUTH_LIMITER_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("PAYAUTH_LIMITER_ENABLED: %w", err)
		}
		cfg.Limiter.Enabled = enabled
	}
	if err := envInt("PAYAUTH_LIMITER_IP_FREE_RETRIES", &cfg.Limiter.IPFreeRetries); err != nil {
		return Config{}, err
	}
	if err := envDuration("PAYAUTH_LIMITER_IP_MIN_WAIT", &cfg.Limiter.IPMinWait); err != nil {
		return Config{}, err
	}
	if err := envDuration("PAYAUTH_LIMITER_IP_MAX_WAIT", &cfg.Limiter.IPMaxWait); err != nil {
		return Config{}, err
	}
	if err := envInt("PAYAUTH_LIMITER_IDENTITY_FREE_RETRIES", &cfg.Limiter.IdentityFreeRetries); err != nil {
		return Config{}, err
	}
	if err := envDuration("PAYAUTH_LIMITER_IDENTITY_MIN_WAIT", &cfg.Limiter.IdentityMinWait); err != nil {
		return Config{}, err
	}
	if err := envDuration("PAYAUTH_LIMITER_IDENTITY_MAX_WAIT", &cfg.Limiter.IdentityMaxWait); err != nil {
		return Config{}, err
	}
	if err := envDuration("PAYAUTH_LIMITER_LIFETIME", &cfg.Limiter.Lifetime); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

func envDuration(name string, dst *time.Duration) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

// Validate rejects configurations that would weaken the auth core.
func (c Config) Validate() error {
	if len(c.Token.Secret) < 16 {
		return errors.New("token secret must be at least 16 bytes")
	}
	if c.Token.TTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	if c.Password.Cost < 10 || c.Password.Cost > 16 {
		return errors.New("bcrypt cost must be between 10 and 16")
	}
	if !c.Account.DefaultRole.Valid() {
		return errors.New("default role must be customer or employee")
	}
	if c.Account.NumberLength < 8 || c.Account.NumberLength > 20 {
		return errors.New("account number length must be 8-20 digits")
	}
	if c.Account.GenerationRetries <= 0 {
		return errors.New("account number generation retries must be positive")
	}
	if c.Limiter.Enabled {
		if c.Limiter.IPFreeRetries < 0 || c.Limiter.IdentityFreeRetries < 0 {
			return errors.New("limiter free retries must not be negative")
		}
		if c.Limiter.IPMinWait <= 0 || c.Limiter.IPMaxWait < c.Limiter.IPMinWait {
			return errors.New("limiter ip wait bounds invalid")
		}
		if c.Limiter.IdentityMinWait <= 0 || c.Limiter.IdentityMaxWait < c.Limiter.IdentityMinWait {
			return errors.New("limiter identity wait bounds invalid")
		}
		if c.Limiter.Lifetime <= 0 {
			return errors.New("limiter lifetime must be positive")
		}
	}
	return nil
}
