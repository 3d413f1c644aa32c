package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftgate/payauth/middleware"
	"github.com/swiftgate/payauth/payments"
)

type createPaymentRequest struct {
	Variant         string `json:"variant"`
	Beneficiary     string `json:"beneficiary"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Reference       string `json:"reference"`
	SWIFTCode       string `json:"swiftCode"`
	BeneficiaryIBAN string `json:"beneficiaryIban"`
}

type verifyPaymentRequest struct {
	Decision string `json:"decision"`
}

func (s *Server) handleCreatePayment(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All payment fields are required"})
		return
	}

	// The submitting customer owns the payment; the client cannot attribute
	// it to anyone else.
	payment, err := payments.New(payments.Input{
		UserID:          claims.UserID,
		Variant:         payments.Variant(req.Variant),
		Beneficiary:     req.Beneficiary,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Reference:       req.Reference,
		SWIFTCode:       req.SWIFTCode,
		BeneficiaryIBAN: req.BeneficiaryIBAN,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.payments.Create(c.Request.Context(), payment); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Payment logged for approval",
		"paymentId": payment.ID,
	})
}

func (s *Server) handleListPending(c *gin.Context) {
	pending, err := s.payments.ListPending(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if pending == nil {
		pending = []payments.Payment{}
	}

	c.JSON(http.StatusOK, gin.H{"payments": pending})
}

func (s *Server) handleVerifyPayment(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	// The decision body is optional; an empty POST means verify.
	var req verifyPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input format"})
			return
		}
	}

	status := payments.Status(req.Decision)
	if req.Decision == "" {
		status = payments.StatusVerified
	}

	payment, err := s.payments.Decide(c.Request.Context(), c.Param("id"), status, claims.UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment " + string(payment.Status),
		"payment": payment,
	})
}
