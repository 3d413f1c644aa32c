package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	payauth "github.com/swiftgate/payauth"
)

const claimsContextKey = "payauth.claims"

// ClaimsFromContext returns the verified claims injected by [Authenticate].
func ClaimsFromContext(c *gin.Context) (*payauth.Claims, bool) {
	value, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*payauth.Claims)
	return claims, ok
}

// Authenticate verifies the Authorization bearer token on every request and
// stores the resulting claims in the gin context. The absence of a usable
// header is a 401; a present token that fails verification is a 403.
func Authenticate(engine *payauth.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if engine == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		ctx := payauth.WithClientIP(c.Request.Context(), c.ClientIP())
		claims, err := engine.VerifyToken(ctx, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireRole restricts the route to callers whose verified role matches
// exactly. Must run after [Authenticate].
func RequireRole(engine *payauth.Engine, role payauth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		ctx := payauth.WithClientIP(c.Request.Context(), c.ClientIP())
		if err := engine.Authorize(ctx, claims, role); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
