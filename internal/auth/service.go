package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carelink/server/internal/errs"
	"github.com/carelink/server/internal/model"
	"github.com/carelink/server/internal/repo"
)

// AuthService orchestrates registration, login and identity lookups
type AuthService struct {
	jwtService  *JWTService
	hasher      PasswordHasher
	accountRepo repo.AccountRepo
}

// NewAuthService creates a new auth service
func NewAuthService(jwtService *JWTService, hasher PasswordHasher, accountRepo repo.AccountRepo) *AuthService {
	return &AuthService{
		jwtService:  jwtService,
		hasher:      hasher,
		accountRepo: accountRepo,
	}
}

// Register hashes the password, inserts the account and issues its first token.
// A taken email or phone surfaces as a *repo.ConstraintError wrapping errs.ErrConflict.
func (s *AuthService) Register(ctx context.Context, name, email, phone, password string) (model.Account, string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.Account{}, "", err
	}

	account, err := s.accountRepo.Create(ctx, name, hash, email, phone)
	if err != nil {
		return model.Account{}, "", err
	}

	token, err := s.jwtService.Issue(account.ID, account.Email)
	if err != nil {
		return model.Account{}, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return account, token, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password both return errs.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.Account, string, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Account{}, "", errs.ErrInvalidCredentials
		}
		return model.Account{}, "", fmt.Errorf("failed to load account: %w", err)
	}

	if !s.hasher.Compare(account.PasswordHash, password) {
		return model.Account{}, "", errs.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(account.ID, account.Email)
	if err != nil {
		return model.Account{}, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return account, token, nil
}

// Account returns the account with the given id
func (s *AuthService) Account(ctx context.Context, id uuid.UUID) (model.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}
