package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/swiftgate/payauth/internal/dbx"
)

const paymentColumns = "id, user_id, variant, beneficiary, amount_minor, currency, reference, swift_code, beneficiary_iban, status, created_at, decided_by, decided_at"

// PostgresRepo is a [Repo] over a payments table. Decisions are applied
// with a conditional UPDATE, so only one employee can decide a payment.
type PostgresRepo struct {
	db dbx.DBTX
}

func NewPostgresRepo(db dbx.DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, payment Payment) error {
	query := `INSERT INTO payments (id, user_id, variant, beneficiary, amount_minor, currency, reference, swift_code, beneficiary_iban, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.UserID,
		string(payment.Variant),
		payment.Beneficiary,
		payment.Amount,
		payment.Currency,
		payment.Reference,
		nullString(payment.SWIFTCode),
		nullString(payment.BeneficiaryIBAN),
		string(payment.Status),
		payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.scanPayment(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepo) ListPending(ctx context.Context) ([]Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE status = 'pending' ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}
	defer rows.Close()

	var pending []Payment
	for rows.Next() {
		payment, err := r.scanPayment(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}

	return pending, nil
}

// Decide flips a pending payment to the given status. The WHERE clause
// carries the pending precondition; zero rows updated means either a
// missing payment or a lost race, disambiguated by a follow-up read.
func (r *PostgresRepo) Decide(ctx context.Context, id string, status Status, employeeID string) (Payment, error) {
	if status != StatusVerified && status != StatusRejected {
		return Payment{}, ErrInvalid
	}

	query := `UPDATE payments SET status = $1, decided_by = $2, decided_at = $3
		WHERE id = $4 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, string(status), employeeID, time.Now().UTC(), id)
	if err != nil {
		return Payment{}, fmt.Errorf("decide payment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Payment{}, fmt.Errorf("decide payment: %w", err)
	}
	if affected == 0 {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return Payment{}, findErr
		}
		return Payment{}, ErrStatusConflict
	}

	return r.FindByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepo) scanPayment(row rowScanner) (Payment, error) {
	var (
		payment   Payment
		variant   string
		status    string
		swift     sql.NullString
		iban      sql.NullString
		decidedBy sql.NullString
		decidedAt sql.NullTime
	)

	err := row.Scan(
		&payment.ID,
		&payment.UserID,
		&variant,
		&payment.Beneficiary,
		&payment.Amount,
		&payment.Currency,
		&payment.Reference,
		&swift,
		&iban,
		&status,
		&payment.CreatedAt,
		&decidedBy,
		&decidedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, fmt.Errorf("scan payment: %w", err)
	}

	payment.Variant = Variant(variant)
	payment.Status = Status(status)
	payment.SWIFTCode = swift.String
	payment.BeneficiaryIBAN = iban.String
	payment.DecidedBy = decidedBy.String
	if decidedAt.Valid {
		payment.DecidedAt = decidedAt.Time
	}

	return payment, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
