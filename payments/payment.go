package payments

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalid reports input that fails the per-variant required set or a
	// format whitelist.
	ErrInvalid = errors.New("payments: invalid payment input")

	// ErrNotFound reports a payment id with no record.
	ErrNotFound = errors.New("payments: payment not found")

	// ErrStatusConflict reports a verify/reject on a payment that already
	// left the pending state.
	ErrStatusConflict = errors.New("payments: payment already decided")
)

// Variant distinguishes domestic transfers from cross-border ones.
type Variant string

const (
	VariantInternal      Variant = "internal"
	VariantInternational Variant = "international"
)

func (v Variant) Valid() bool {
	return v == VariantInternal || v == VariantInternational
}

// Status is the verification state of a payment instruction.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusVerified || s == StatusRejected
}

var (
	swiftPattern    = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	ibanPattern     = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{10,30}$`)
)

// Payment is a stored payment instruction. Amount is in minor units of
// Currency. SWIFTCode and BeneficiaryIBAN are set only on the
// international variant.
type Payment struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Variant         Variant   `json:"variant"`
	Beneficiary     string    `json:"beneficiary"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Reference       string    `json:"reference"`
	SWIFTCode       string    `json:"swiftCode,omitempty"`
	BeneficiaryIBAN string    `json:"beneficiaryIban,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	DecidedBy       string    `json:"decidedBy,omitempty"`
	DecidedAt       time.Time `json:"decidedAt,omitzero"`
}

// Input carries the fields a customer submits. Variant selects which of the
// optional fields are required.
type Input struct {
	UserID          string
	Variant         Variant
	Beneficiary     string
	Amount          int64
	Currency        string
	Reference       string
	SWIFTCode       string
	BeneficiaryIBAN string
}

// New validates input and returns a pending payment. This is the only way
// to construct a Payment; the per-variant required set is enforced here.
func New(input Input) (Payment, error) {
	if input.UserID == "" {
		return Payment{}, ErrInvalid
	}
	if !input.Variant.Valid() {
		return Payment{}, ErrInvalid
	}
	if input.Beneficiary == "" || len(input.Beneficiary) > 120 {
		return Payment{}, ErrInvalid
	}
	if input.Amount <= 0 {
		return Payment{}, ErrInvalid
	}
	if !currencyPattern.MatchString(input.Currency) {
		return Payment{}, ErrInvalid
	}
	if input.Reference == "" || len(input.Reference) > 140 {
		return Payment{}, ErrInvalid
	}

	switch input.Variant {
	case VariantInternal:
		if input.SWIFTCode != "" || input.BeneficiaryIBAN != "" {
			return Payment{}, ErrInvalid
		}
	case VariantInternational:
		if !swiftPattern.MatchString(input.SWIFTCode) {
			return Payment{}, ErrInvalid
		}
		if !ibanPattern.MatchString(input.BeneficiaryIBAN) {
			return Payment{}, ErrInvalid
		}
	}

	return Payment{
		ID:              uuid.NewString(),
		UserID:          input.UserID,
		Variant:         input.Variant,
		Beneficiary:     input.Beneficiary,
		Amount:          input.Amount,
		Currency:        input.Currency,
		Reference:       input.Reference,
		SWIFTCode:       input.SWIFTCode,
		BeneficiaryIBAN: input.BeneficiaryIBAN,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Decide moves a pending payment to verified or rejected, recording the
// deciding employee. Any other transition is a conflict.
func (p *Payment) Decide(status Status, employeeID string) error {
	if status != StatusVerified && status != StatusRejected {
		return ErrInvalid
	}
	if employeeID == "" {
		return ErrInvalid
	}
	if p.Status != StatusPending {
		return ErrStatusConflict
	}

	p.Status = status
	p.DecidedBy = employeeID
	p.DecidedAt = time.Now().UTC()
	return nil
}
