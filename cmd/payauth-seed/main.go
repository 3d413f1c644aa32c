// Command payauth-seed provisions the pre-configured demo accounts in
// Postgres. Existing usernames are skipped, so reruns are safe.
//
// Requires PAYAUTH_DATABASE_DSN and PAYAUTH_PASSWORD_PEPPER to match the
// server's configuration, or logins against the seeded hashes will fail.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	payauth "github.com/swiftgate/payauth"
	"github.com/swiftgate/payauth/internal/dbx"
	"github.com/swiftgate/payauth/internal/stores"
	"github.com/swiftgate/payauth/password"
)

type seedUser struct {
	Name          string
	IDNumber      string
	Username      string
	AccountNumber string
	Password      string
	Role          payauth.Role
}

var seedUsers = []seedUser{
	{"John Customer", "9001015800081", "john_customer", "6200000001", "Customer@123", payauth.RoleCustomer},
	{"Sarah Client", "8505125800082", "sarah_client", "6200000002", "Client@456", payauth.RoleCustomer},
	{"Mike Payer", "9203145800083", "mike_payer", "6200000003", "Payer@789", payauth.RoleCustomer},
	{"Alice Employee", "8807085800084", "alice_employee", "6200000101", "Employee@123", payauth.RoleEmployee},
	{"Bob Staff", "9112155800085", "bob_staff", "6200000102", "Staff@456", payauth.RoleEmployee},
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if err := run(log); err != nil {
		log.Error("seeding failed", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx := context.Background()

	cfg, err := payauth.FromEnv()
	if err != nil {
		return err
	}
	if cfg.Database.DSN == "" {
		return errors.New("PAYAUTH_DATABASE_DSN is required")
	}

	db, err := stores.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	hasher, err := password.NewHasher(password.Config{
		Pepper: cfg.Password.Pepper,
		Cost:   cfg.Password.Cost,
	})
	if err != nil {
		return err
	}

	// All inserts ride one transaction; a failed run leaves nothing behind.
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		store := stores.NewPostgres(tx)

		for _, user := range seedUsers {
			if _, err := store.FindByUsername(ctx, user.Username); err == nil {
				log.Info("user exists, skipping", "username", user.Username)
				continue
			} else if !errors.Is(err, payauth.ErrAccountNotFound) {
				return err
			}

			hash, err := hasher.Hash(user.Password)
			if err != nil {
				return err
			}

			created, err := store.Create(ctx, payauth.CreateUserInput{
				Name:          user.Name,
				IDNumber:      user.IDNumber,
				Username:      user.Username,
				AccountNumber: user.AccountNumber,
				PasswordHash:  hash,
				Role:          user.Role,
			})
			if err != nil {
				return err
			}
			log.Info("seeded user", "username", created.Username, "role", string(created.Role))
		}

		return nil
	})
}
