package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/server/internal/errs"
	"github.com/carelink/server/internal/model"
	"github.com/carelink/server/internal/repo"
)

// fakeAccounts mimics the unique indexes of the accounts table
type fakeAccounts struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]model.Account
	getErr  error
	created int
}

var _ repo.AccountRepo = (*fakeAccounts)(nil)

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[uuid.UUID]model.Account{}}
}

func (f *fakeAccounts) Create(_ context.Context, name, passwordHash, email, phone string) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if strings.EqualFold(a.Email, email) {
			return model.Account{}, &repo.ConstraintError{Constraint: "accounts_email_key", Field: "email", Err: errs.ErrConflict}
		}
		if a.Phone == phone {
			return model.Account{}, &repo.ConstraintError{Constraint: "accounts_phone_key", Field: "phone", Err: errs.ErrConflict}
		}
	}
	a := model.Account{ID: uuid.New(), Name: name, PasswordHash: passwordHash, Email: email, Phone: phone, CreatedAt: time.Now()}
	f.byID[a.ID] = a
	f.created++
	return a, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return model.Account{}, errs.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return model.Account{}, f.getErr
	}
	for _, a := range f.byID {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return model.Account{}, errs.ErrNotFound
}

// plainHasher keeps tests fast; bcrypt itself is covered in password_test.go
type plainHasher struct{ err error }

func (h plainHasher) Hash(p string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + p, nil
}

func (h plainHasher) Compare(hash, p string) bool { return hash == "hashed:"+p }

func newService(accounts *fakeAccounts, hasher PasswordHasher) (*AuthService, *JWTService) {
	jwtSvc := NewJWTService(testSecret, time.Hour)
	return NewAuthService(jwtSvc, hasher, accounts), jwtSvc
}

func TestAuthService_Register(t *testing.T) {
	accounts := newFakeAccounts()
	svc, jwtSvc := newService(accounts, plainHasher{})

	acc, token, err := svc.Register(context.Background(), "Ann", "ann@example.com", "5551234567", "pw")
	require.NoError(t, err)
	assert.Equal(t, "hashed:pw", acc.PasswordHash)

	id, err := jwtSvc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, id.AccountID)
	assert.Equal(t, "ann@example.com", id.Email)
}

func TestAuthService_Register_EmailConflictIgnoresCase(t *testing.T) {
	accounts := newFakeAccounts()
	svc, _ := newService(accounts, plainHasher{})
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ann", "ann@example.com", "5551234567", "pw")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Ann 2", "ANN@Example.COM", "5559999999", "pw")
	require.Error(t, err)
	var ce *repo.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "email", ce.Field)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, 1, accounts.created)
}

func TestAuthService_Register_HashFailureStoresNothing(t *testing.T) {
	accounts := newFakeAccounts()
	svc, _ := newService(accounts, plainHasher{err: errors.New("entropy exhausted")})

	_, _, err := svc.Register(context.Background(), "Ann", "ann@example.com", "5551234567", "pw")
	require.Error(t, err)
	assert.Equal(t, 0, accounts.created)
}

func TestAuthService_Login(t *testing.T) {
	accounts := newFakeAccounts()
	svc, _ := newService(accounts, plainHasher{})
	ctx := context.Background()

	reg, _, err := svc.Register(ctx, "Ann", "ann@example.com", "5551234567", "pw")
	require.NoError(t, err)

	acc, token, err := svc.Login(ctx, "Ann@Example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, acc.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "ann@example.com", "nope")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "bob@example.com", "pw")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	accounts := newFakeAccounts()
	accounts.getErr = errors.New("connection refused")
	svc, _ := newService(accounts, plainHasher{})

	_, _, err := svc.Login(context.Background(), "ann@example.com", "pw")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errs.ErrInvalidCredentials))
}

func TestAuthService_Account(t *testing.T) {
	accounts := newFakeAccounts()
	svc, _ := newService(accounts, plainHasher{})
	ctx := context.Background()

	reg, _, err := svc.Register(ctx, "Ann", "ann@example.com", "5551234567", "pw")
	require.NoError(t, err)

	got, err := svc.Account(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, reg, got)

	_, err = svc.Account(ctx, uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)
}
