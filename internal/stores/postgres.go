package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/swiftgate/payauth/internal/dbx"
	"github.com/swiftgate/payauth/internal/stores/migrations"

	payauth "github.com/swiftgate/payauth"
)

const pgUniqueViolation = "23505"

// Postgres is a [payauth.UserStore] over a users table. Uniqueness is
// enforced by database constraints; a violated constraint surfaces as
// [payauth.ErrConflict].
type Postgres struct {
	db dbx.DBTX
}

// NewPostgres returns a store over the given handle (either *sql.DB or a
// transaction).
func NewPostgres(db dbx.DBTX) *Postgres {
	return &Postgres{db: db}
}

// Open connects via the pgx stdlib driver and runs pending migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

const userColumns = "id, name, id_number, username, account_number, password_hash, role, created_at"

// FindByUsername implements [payauth.UserStore].
func (p *Postgres) FindByUsername(ctx context.Context, username string) (payauth.UserRecord, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return p.scanUser(p.db.QueryRowContext(ctx, query, username))
}

// FindByAccountNumber implements [payauth.UserStore].
func (p *Postgres) FindByAccountNumber(ctx context.Context, accountNumber string) (payauth.UserRecord, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE account_number = $1`
	return p.scanUser(p.db.QueryRowContext(ctx, query, accountNumber))
}

// FindByID implements [payauth.UserStore].
func (p *Postgres) FindByID(ctx context.Context, id string) (payauth.UserRecord, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return p.scanUser(p.db.QueryRowContext(ctx, query, id))
}

// ExistsByAccountNumber implements [payauth.UserStore].
func (p *Postgres) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE account_number = $1)`

	var exists bool
	if err := p.db.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// Create implements [payauth.UserStore]. The unique constraints on username
// and account_number make the insert the atomic uniqueness decision.
func (p *Postgres) Create(ctx context.Context, input payauth.CreateUserInput) (payauth.UserRecord, error) {
	query := `INSERT INTO users (` + userColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	user := payauth.UserRecord{
		ID:            uuid.NewString(),
		Name:          input.Name,
		IDNumber:      input.IDNumber,
		Username:      input.Username,
		AccountNumber: input.AccountNumber,
		PasswordHash:  input.PasswordHash,
		Role:          input.Role,
		CreatedAt:     time.Now().UTC(),
	}

	_, err := p.db.ExecContext(ctx, query,
		user.ID, user.Name, user.IDNumber, user.Username,
		user.AccountNumber, user.PasswordHash, string(user.Role), user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return payauth.UserRecord{}, payauth.ErrConflict
		}
		return payauth.UserRecord{}, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (p *Postgres) scanUser(row *sql.Row) (payauth.UserRecord, error) {
	var user payauth.UserRecord
	var role string

	err := row.Scan(&user.ID, &user.Name, &user.IDNumber, &user.Username,
		&user.AccountNumber, &user.PasswordHash, &role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payauth.UserRecord{}, payauth.ErrAccountNotFound
		}
		return payauth.UserRecord{}, fmt.Errorf("db error: %w", err)
	}

	user.Role = payauth.Role(role)
	return user, nil
}
