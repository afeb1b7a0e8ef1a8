package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carelink/server/internal/errs"
	"github.com/carelink/server/internal/model"
)

// AccountRepo defines the interface for account repository operations
type AccountRepo interface {
	Create(ctx context.Context, name, passwordHash, email, phone string) (model.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Account, error)
	GetByEmail(ctx context.Context, email string) (model.Account, error)
}

type accountRepo struct {
	db *sql.DB
}

// NewAccountRepo creates a new AccountRepo instance
func NewAccountRepo(db *sql.DB) AccountRepo {
	return &accountRepo{db: db}
}

// Create inserts an account. Email and phone uniqueness are enforced by the
// accounts_email_key and accounts_phone_key constraints in the same statement.
func (r *accountRepo) Create(ctx context.Context, name, passwordHash, email, phone string) (model.Account, error) {
	query := `
		INSERT INTO accounts (name, password_hash, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	account := model.Account{
		Name:         name,
		PasswordHash: passwordHash,
		Email:        email,
		Phone:        phone,
	}
	err := r.db.QueryRowContext(ctx, query, name, passwordHash, email, phone).Scan(
		&account.ID,
		&account.CreatedAt,
	)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to create account: %w", classify(err))
	}

	return account, nil
}

// GetByID retrieves an account by ID
func (r *accountRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `
		SELECT id, name, password_hash, email, phone, created_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an account by email, ignoring case
func (r *accountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	query := `
		SELECT id, name, password_hash, email, phone, created_at
		FROM accounts
		WHERE lower(email) = lower($1)
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *accountRepo) scanOne(row *sql.Row) (model.Account, error) {
	var account model.Account
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.PasswordHash,
		&account.Email,
		&account.Phone,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, fmt.Errorf("account: %w", errs.ErrNotFound)
		}
		return model.Account{}, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}
