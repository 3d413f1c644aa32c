package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	payauth "github.com/swiftgate/payauth"
	"github.com/swiftgate/payauth/middleware"
)

type registerRequest struct {
	Name            string `json:"name"`
	IDNumber        string `json:"idNumber"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Username      string `json:"username"`
	AccountNumber string `json:"accountNumber"`
	Password      string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input format"})
		return
	}

	ctx := payauth.WithClientIP(c.Request.Context(), c.ClientIP())
	res, err := s.engine.Register(ctx, payauth.RegisterRequest{
		Name:            req.Name,
		IDNumber:        req.IDNumber,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Registration successful",
		"accountNumber": res.AccountNumber,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide username or account number, and password"})
		return
	}

	ctx := payauth.WithClientIP(c.Request.Context(), c.ClientIP())
	res, err := s.engine.Login(ctx, payauth.LoginRequest{
		Username:      req.Username,
		AccountNumber: req.AccountNumber,
		Password:      req.Password,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Login successful",
		"token":         res.Token,
		"role":          res.Role,
		"username":      res.Username,
		"accountNumber": res.AccountNumber,
	})
}

func (s *Server) handleProfile(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	profile, err := s.engine.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
