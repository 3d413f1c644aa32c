package payments

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentsMock(t *testing.T) (*PostgresRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "sqlmock.New")
	return NewPostgresRepo(db), mock, db
}

func paymentRows(id, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "variant", "beneficiary", "amount_minor", "currency",
		"reference", "swift_code", "beneficiary_iban", "status", "created_at",
		"decided_by", "decided_at",
	}).AddRow(
		id, "8e4f3a1c-0000-0000-0000-000000000001", "international",
		"Acme Imports GmbH", int64(125000), "EUR", "Invoice 4471",
		"DEUTDEFF", "DE89370400440532013000", status, time.Now().UTC(),
		nil, nil,
	)
}

func TestPostgresRepoCreate(t *testing.T) {
	repo, mock, db := newPaymentsMock(t)
	defer db.Close()

	payment, err := New(validInternational())
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), payment))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepoFindByID(t *testing.T) {
	repo, mock, db := newPaymentsMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM payments WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnRows(paymentRows("p-1", "pending"))

	payment, err := repo.FindByID(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, VariantInternational, payment.Variant)
	assert.Equal(t, StatusPending, payment.Status)
	assert.Equal(t, "DEUTDEFF", payment.SWIFTCode)
	assert.Empty(t, payment.DecidedBy)
}

func TestPostgresRepoFindByIDNotFound(t *testing.T) {
	repo, mock, db := newPaymentsMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM payments WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepoListPending(t *testing.T) {
	repo, mock, db := newPaymentsMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM payments WHERE status = 'pending' ORDER BY created_at`).
		WillReturnRows(paymentRows("p-1", "pending"))

	pending, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "p-1", pending[0].ID)
}

func TestPostgresRepoDecide(t *testing.T) {
	repo, mock, db := newPaymentsMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE payments SET status = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM payments WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnRows(paymentRows("p-1", "verified"))

	payment, err := repo.Decide(context.Background(), "p-1", StatusVerified, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, payment.Status)
}

func TestPostgresRepoDecideAlreadyDecided(t *testing.T) {
	repo, mock, db := newPaymentsMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE payments SET status = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM payments WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnRows(paymentRows("p-1", "rejected"))

	_, err := repo.Decide(context.Background(), "p-1", StatusVerified, "emp-1")
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestPostgresRepoDecideMissing(t *testing.T) {
	repo, mock, db := newPaymentsMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE payments SET status = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM payments WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Decide(context.Background(), "ghost", StatusVerified, "emp-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
