package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/server/internal/errs"
	"github.com/carelink/server/internal/middleware"
	"github.com/carelink/server/internal/model"
	"github.com/carelink/server/internal/validate"
)

// AccountService is the account side of the auth service
type AccountService interface {
	Register(ctx context.Context, name, email, phone, password string) (model.Account, string, error)
	Login(ctx context.Context, email, password string) (model.Account, string, error)
	Account(ctx context.Context, id uuid.UUID) (model.Account, error)
}

// AccountHandler handles registration, login and the current account
type AccountHandler struct {
	accounts     AccountService
	gate         *validate.Gate
	log          *zap.Logger
	storeTimeout time.Duration
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts AccountService, gate *validate.Gate, log *zap.Logger, storeTimeout time.Duration) *AccountHandler {
	return &AccountHandler{
		accounts:     accounts,
		gate:         gate,
		log:          log,
		storeTimeout: storeTimeout,
	}
}

// accountResponse is the account object in API responses
type accountResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// tokenResponse is the JSON response for register and login
type tokenResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	Account   accountResponse `json:"account"`
}

func newAccountResponse(a model.Account) accountResponse {
	return accountResponse{
		ID:    a.ID.String(),
		Name:  a.Name,
		Email: a.Email,
		Phone: a.Phone,
	}
}

// HandleRegister handles POST /accounts
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	fields, err := validate.FromJSON(r.Body)
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}
	in, err := h.gate.Account(fields)
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}

	ctx, cancel := storeContext(r, h.storeTimeout)
	defer cancel()

	account, token, err := h.accounts.Register(ctx, in.Name, in.Email, in.Phone, in.Password)
	if err != nil {
		h.log.Info("register failed",
			zap.String("email", maskEmail(in.Email)),
			zap.String("phone", maskPhone(in.Phone)),
			zap.Error(err),
		)
		respondWithErr(w, h.log, err)
		return
	}

	h.log.Info("account registered", zap.String("account_id", account.ID.String()))
	respondJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		TokenType: "bearer",
		Account:   newAccountResponse(account),
	})
}

// HandleLogin handles POST /login
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	fields, err := validate.FromJSON(r.Body)
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}
	in, err := h.gate.Login(fields)
	if err != nil {
		respondWithErr(w, h.log, err)
		return
	}

	ctx, cancel := storeContext(r, h.storeTimeout)
	defer cancel()

	account, token, err := h.accounts.Login(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			h.log.Info("login rejected", zap.String("email", maskEmail(in.Email)))
		}
		respondWithErr(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		TokenType: "bearer",
		Account:   newAccountResponse(account),
	})
}

// HandleMe handles GET /me (protected). Returns the authenticated account.
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := storeContext(r, h.storeTimeout)
	defer cancel()

	account, err := h.accounts.Account(ctx, identity.AccountID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			respondWithError(w, http.StatusUnauthorized, "account not found")
			return
		}
		respondWithErr(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, newAccountResponse(account))
}
