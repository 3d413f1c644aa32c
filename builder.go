package payauth

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/swiftgate/payauth/internal/audit"
	"github.com/swiftgate/payauth/internal/logging"
	"github.com/swiftgate/payauth/internal/rate"
	"github.com/swiftgate/payauth/password"
	"github.com/swiftgate/payauth/token"
)

// Builder assembles an Engine from configuration and external dependencies.
// Configure during initialization, call Build once, then treat the Engine as
// immutable.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	store     UserStore
	auditSink audit.Sink
	log       logging.Logger

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client backing the brute-force limiter. Required
// when the limiter is enabled.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets the credential store. Required.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.store = store
	return b
}

// WithAuditSink sets the destination for audit events. Ignored unless
// auditing is enabled in the configuration.
func (b *Builder) WithAuditSink(sink audit.Sink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func (b *Builder) WithLogger(log logging.Logger) *Builder {
	b.log = log
	return b
}

// Build validates the configuration, wires the hasher, token manager,
// limiter, audit dispatcher, and metrics, and returns the Engine. A Builder
// can be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := b.config

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, errors.New("user store required")
	}
	if cfg.Limiter.Enabled && b.redis == nil {
		return nil, errors.New("limiter requires a redis client")
	}

	hasher, err := password.NewHasher(password.Config{
		Pepper: cfg.Password.Pepper,
		Cost:   cfg.Password.Cost,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		Secret: cfg.Token.Secret,
		TTL:    cfg.Token.TTL,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config: cfg,
		store:  b.store,
		hasher: hasher,
		tokens: tokens,
	}

	if cfg.Limiter.Enabled {
		engine.limiter = rate.New(b.redis, rate.Config{
			IP: rate.ScopeConfig{
				FreeRetries: cfg.Limiter.IPFreeRetries,
				MinWait:     cfg.Limiter.IPMinWait,
				MaxWait:     cfg.Limiter.IPMaxWait,
			},
			Identity: rate.ScopeConfig{
				FreeRetries: cfg.Limiter.IdentityFreeRetries,
				MinWait:     cfg.Limiter.IdentityMinWait,
				MaxWait:     cfg.Limiter.IdentityMaxWait,
			},
			Lifetime: cfg.Limiter.Lifetime,
		})
	}

	engine.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	engine.metrics = NewMetrics(cfg.Metrics)

	engine.log = b.log
	if engine.log == nil {
		engine.log = logging.NoOp{}
	}

	return engine, nil
}
