package payauth

import (
	"strings"
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.Secret = []byte("0123456789abcdef0123456789abcdef")
	return cfg
}

func TestDefaultConfigIsValidWithSecret(t *testing.T) {
	if err := validTestConfig().Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestValidateRejectsWeakSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"short secret", func(c *Config) { c.Token.Secret = []byte("short") }, "secret"},
		{"zero ttl", func(c *Config) { c.Token.TTL = 0 }, "ttl"},
		{"low cost", func(c *Config) { c.Password.Cost = 4 }, "cost"},
		{"high cost", func(c *Config) { c.Password.Cost = 20 }, "cost"},
		{"bad role", func(c *Config) { c.Account.DefaultRole = "admin" }, "role"},
		{"short number", func(c *Config) { c.Account.NumberLength = 4 }, "length"},
		{"no retries", func(c *Config) { c.Account.GenerationRetries = 0 }, "retries"},
		{"inverted ip waits", func(c *Config) { c.Limiter.IPMaxWait = c.Limiter.IPMinWait / 2 }, "ip wait"},
		{"zero lifetime", func(c *Config) { c.Limiter.Lifetime = 0 }, "lifetime"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateSkipsLimiterBoundsWhenDisabled(t *testing.T) {
	cfg := validTestConfig()
	cfg.Limiter.Enabled = false
	cfg.Limiter.Lifetime = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestFromEnvOverlaysDefaults(t *testing.T) {
	t.Setenv("PAYAUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("PAYAUTH_TOKEN_TTL", "30m")
	t.Setenv("PAYAUTH_LISTEN_ADDR", ":9090")
	t.Setenv("PAYAUTH_REGISTRATION_ENABLED", "false")
	t.Setenv("PAYAUTH_REDIS_ADDR", "redis:6379")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if string(cfg.Token.Secret) != "0123456789abcdef0123456789abcdef" {
		t.Fatal("secret not overlaid")
	}
	if cfg.Token.TTL != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %v", cfg.Token.TTL)
	}
	if cfg.Server.ListenAddr != ":9090" {
		t.Fatalf("expected :9090, got %s", cfg.Server.ListenAddr)
	}
	if cfg.Account.RegistrationEnabled {
		t.Fatal("expected registration disabled")
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("unexpected redis addr %s", cfg.Redis.Addr)
	}

	// Untouched fields keep their defaults.
	if cfg.Password.Cost != 12 {
		t.Fatalf("expected default cost 12, got %d", cfg.Password.Cost)
	}
	if cfg.Limiter.IdentityFreeRetries != 5 {
		t.Fatalf("expected default identity retries 5, got %d", cfg.Limiter.IdentityFreeRetries)
	}
}

func TestFromEnvOverlaysLimiterTunables(t *testing.T) {
	t.Setenv("PAYAUTH_LIMITER_IP_FREE_RETRIES", "10")
	t.Setenv("PAYAUTH_LIMITER_IP_MIN_WAIT", "1m")
	t.Setenv("PAYAUTH_LIMITER_IP_MAX_WAIT", "30m")
	t.Setenv("PAYAUTH_LIMITER_IDENTITY_FREE_RETRIES", "2")
	t.Setenv("PAYAUTH_LIMITER_IDENTITY_MIN_WAIT", "2m")
	t.Setenv("PAYAUTH_LIMITER_IDENTITY_MAX_WAIT", "45m")
	t.Setenv("PAYAUTH_LIMITER_LIFETIME", "12h")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Limiter.IPFreeRetries != 10 || cfg.Limiter.IdentityFreeRetries != 2 {
		t.Fatalf("free retries not overlaid: ip=%d identity=%d", cfg.Limiter.IPFreeRetries, cfg.Limiter.IdentityFreeRetries)
	}
	if cfg.Limiter.IPMinWait != time.Minute || cfg.Limiter.IPMaxWait != 30*time.Minute {
		t.Fatalf("ip waits not overlaid: %v/%v", cfg.Limiter.IPMinWait, cfg.Limiter.IPMaxWait)
	}
	if cfg.Limiter.IdentityMinWait != 2*time.Minute || cfg.Limiter.IdentityMaxWait != 45*time.Minute {
		t.Fatalf("identity waits not overlaid: %v/%v", cfg.Limiter.IdentityMinWait, cfg.Limiter.IdentityMaxWait)
	}
	if cfg.Limiter.Lifetime != 12*time.Hour {
		t.Fatalf("lifetime not overlaid: %v", cfg.Limiter.Lifetime)
	}
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("PAYAUTH_TOKEN_TTL", "not-a-duration")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for malformed ttl")
	}

	t.Setenv("PAYAUTH_TOKEN_TTL", "")
	t.Setenv("PAYAUTH_LIMITER_IP_MIN_WAIT", "soon")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for malformed limiter wait")
	}
}

func TestValidateRejectsNegativeFreeRetries(t *testing.T) {
	cfg := validTestConfig()
	cfg.Limiter.IPFreeRetries = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "free retries") {
		t.Fatalf("error %q does not mention free retries", err)
	}
}
