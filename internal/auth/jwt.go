package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carelink/server/internal/errs"
	"github.com/carelink/server/internal/model"
)

// JWTClaims represents the identity token claims: subject is the account id
type JWTClaims struct {
	AccountID uuid.UUID `json:"sub"`
	Email     string    `json:"email"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HS256 identity tokens
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service. Tokens expire ttl after issue.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a signed token carrying the account id and email
func (s *JWTService) Issue(accountID uuid.UUID, email string) (string, error) {
	now := s.now()
	claims := &JWTClaims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the identity the token asserts.
// Every failure wraps errs.ErrUnauthorized.
func (s *JWTService) Verify(tokenString string) (model.Identity, error) {
	if tokenString == "" {
		return model.Identity{}, fmt.Errorf("missing token: %w", errs.ErrUnauthorized)
	}

	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, fmt.Errorf("token expired: %w", errs.ErrUnauthorized)
		}
		return model.Identity{}, fmt.Errorf("failed to parse token: %v: %w", err, errs.ErrUnauthorized)
	}

	if !token.Valid || claims.AccountID == uuid.Nil {
		return model.Identity{}, fmt.Errorf("invalid token: %w", errs.ErrUnauthorized)
	}

	return model.Identity{AccountID: claims.AccountID, Email: claims.Email}, nil
}
