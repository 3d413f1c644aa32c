package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	payauth "github.com/swiftgate/payauth"
	"github.com/swiftgate/payauth/internal/stores"
	"github.com/swiftgate/payauth/password"
)

func guardConfig() payauth.Config {
	cfg := payauth.DefaultConfig()
	cfg.Token.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Pepper = "test-pepper"
	cfg.Password.Cost = 10
	cfg.Limiter.Enabled = false
	cfg.Audit.Enabled = false
	return cfg
}

func newGuardEngine(t *testing.T, cfg payauth.Config) (*payauth.Engine, *stores.Memory) {
	t.Helper()

	store := stores.NewMemory()
	engine, err := payauth.New().
		WithConfig(cfg).
		WithUserStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, store
}

func seedAndLogin(t *testing.T, engine *payauth.Engine, store *stores.Memory, cfg payauth.Config, username, number, plaintext string, role payauth.Role) string {
	t.Helper()

	hasher, err := password.NewHasher(password.Config{Pepper: cfg.Password.Pepper, Cost: cfg.Password.Cost})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	hash, err := hasher.Hash(plaintext)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if _, err := store.Create(context.Background(), payauth.CreateUserInput{
		Name:          "Guard Test",
		IDNumber:      "9001015800086",
		Username:      username,
		AccountNumber: number,
		PasswordHash:  hash,
		Role:          role,
	}); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}

	res, err := engine.Login(context.Background(), payauth.LoginRequest{Username: username, Password: plaintext})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return res.Token
}

func newGuardRouter(engine *payauth.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authed := router.Group("/", Authenticate(engine))
	authed.GET("/me", func(c *gin.Context) {
		claims, _ := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	authed.GET("/staff", RequireRole(engine, payauth.RoleEmployee), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router
}

func doGet(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateMissingHeader(t *testing.T) {
	engine, _ := newGuardEngine(t, guardConfig())
	router := newGuardRouter(engine)

	for _, header := range []string{"", "Token abc", "Bearer", "Bearer "} {
		rec := doGet(router, "/me", header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	engine, _ := newGuardEngine(t, guardConfig())
	router := newGuardRouter(engine)

	rec := doGet(router, "/me", "Bearer not-a-real-token")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	cfg := guardConfig()
	engine, store := newGuardEngine(t, cfg)
	router := newGuardRouter(engine)
	token := seedAndLogin(t, engine, store, cfg, "alice_w", "6200000001", "Str0ng!Pass", payauth.RoleCustomer)

	rec := doGet(router, "/me", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthenticateForeignSignedToken(t *testing.T) {
	cfg := guardConfig()
	engine, _ := newGuardEngine(t, cfg)
	router := newGuardRouter(engine)

	otherCfg := guardConfig()
	otherCfg.Token.Secret = []byte("ffffffffffffffffffffffffffffffff")
	other, otherStore := newGuardEngine(t, otherCfg)
	foreign := seedAndLogin(t, other, otherStore, otherCfg, "bob_smith", "6200000003", "Str0ng!Pass", payauth.RoleCustomer)

	rec := doGet(router, "/me", "Bearer "+foreign)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign-signed token, got %d", rec.Code)
	}
}

func TestRequireRoleExactMatch(t *testing.T) {
	cfg := guardConfig()
	engine, store := newGuardEngine(t, cfg)
	router := newGuardRouter(engine)
	customer := seedAndLogin(t, engine, store, cfg, "alice_w", "6200000001", "Str0ng!Pass", payauth.RoleCustomer)
	employee := seedAndLogin(t, engine, store, cfg, "eve_staff", "6200000002", "Empl0yee!Pass", payauth.RoleEmployee)

	rec := doGet(router, "/staff", "Bearer "+customer)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("customer on staff route: expected 403, got %d", rec.Code)
	}

	rec = doGet(router, "/staff", "Bearer "+employee)
	if rec.Code != http.StatusOK {
		t.Fatalf("employee on staff route: expected 200, got %d", rec.Code)
	}
}

func TestRequireRoleCountsDenials(t *testing.T) {
	cfg := guardConfig()
	engine, store := newGuardEngine(t, cfg)
	router := newGuardRouter(engine)
	customer := seedAndLogin(t, engine, store, cfg, "alice_w", "6200000001", "Str0ng!Pass", payauth.RoleCustomer)

	before := engine.MetricsSnapshot().Counters[payauth.MetricRoleDenied]
	doGet(router, "/staff", "Bearer "+customer)
	after := engine.MetricsSnapshot().Counters[payauth.MetricRoleDenied]
	if after != before+1 {
		t.Fatalf("expected role denial counter to increment, before=%d after=%d", before, after)
	}
}
