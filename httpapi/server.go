package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	payauth "github.com/swiftgate/payauth"
	"github.com/swiftgate/payauth/internal/logging"
	"github.com/swiftgate/payauth/middleware"
	"github.com/swiftgate/payauth/payments"
)

// Server holds the dependencies shared by all handlers.
type Server struct {
	engine   *payauth.Engine
	payments payments.Repo
	log      logging.Logger
}

// NewServer wires handlers over an engine and a payment repo.
func NewServer(engine *payauth.Engine, paymentRepo payments.Repo, log logging.Logger) *Server {
	if log == nil {
		log = logging.NoOp{}
	}
	return &Server{
		engine:   engine,
		payments: paymentRepo,
		log:      log,
	}
}

// Router builds the gin router with all routes mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	user := router.Group("/api/user")
	user.POST("/register", s.handleRegister)
	user.POST("/login", s.handleLogin)
	user.GET("/profile", middleware.Authenticate(s.engine), s.handleProfile)

	payment := router.Group("/api/payment", middleware.Authenticate(s.engine))
	payment.POST("", middleware.RequireRole(s.engine, payauth.RoleCustomer), s.handleCreatePayment)
	payment.GET("/pending", middleware.RequireRole(s.engine, payauth.RoleEmployee), s.handleListPending)
	payment.POST("/:id/verify", middleware.RequireRole(s.engine, payauth.RoleEmployee), s.handleVerifyPayment)

	return router
}

// writeError maps engine sentinels onto HTTP statuses and the client-facing
// messages the frontend relies on. Anything unrecognized is a 500 with a
// generic body.
func (s *Server) writeError(c *gin.Context, err error) {
	var limitErr *payauth.RateLimitError
	if errors.As(err, &limitErr) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":                "Too many failed attempts. Please try again later.",
			"nextValidRequestDate": limitErr.NextValidRequest,
		})
		return
	}

	switch {
	case errors.Is(err, payauth.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input format"})
	case errors.Is(err, payauth.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, payauth.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
	case errors.Is(err, payauth.ErrRegistrationDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "Registration is disabled. Please contact your administrator for account access."})
	case errors.Is(err, payauth.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
	case errors.Is(err, payauth.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case errors.Is(err, payments.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment details"})
	case errors.Is(err, payments.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
	case errors.Is(err, payments.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Payment already decided"})
	default:
		s.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
