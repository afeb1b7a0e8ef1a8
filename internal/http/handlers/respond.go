package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/carelink/server/internal/errs"
	"github.com/carelink/server/internal/messaging"
	"github.com/carelink/server/internal/repo"
	"github.com/carelink/server/internal/validate"
)

// respondJSON writes v as a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}

// respondWithErr maps err onto a status and message. Anything unclassified is
// logged and answered with a generic 500.
func respondWithErr(w http.ResponseWriter, log *zap.Logger, err error) {
	statusCode, message := classify(err)
	if statusCode == http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
	respondWithError(w, statusCode, message)
}

func classify(err error) (int, string) {
	var fieldErr *validate.FieldError
	var constraintErr *repo.ConstraintError

	switch {
	case errors.As(err, &fieldErr):
		return http.StatusUnprocessableEntity, fieldErr.Error()
	case errors.Is(err, messaging.ErrUnknownReceiver):
		return http.StatusUnprocessableEntity, "unknown receiver"
	case errors.As(err, &constraintErr) && errors.Is(constraintErr, errs.ErrConflict):
		if constraintErr.Field == "" {
			return http.StatusUnprocessableEntity, "already registered"
		}
		return http.StatusUnprocessableEntity, constraintErr.Field + " already registered"
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnprocessableEntity, errs.ErrInvalidCredentials.Error()
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusUnprocessableEntity, errs.ErrInvalidInput.Error()
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "not found"
	}
	return http.StatusInternalServerError, errs.ErrInternal.Error()
}

// storeContext bounds a store call by timeout. It is detached from the client
// connection so an accepted request runs to completion or failure.
func storeContext(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), timeout)
}

// maskPhone masks a phone number for logging (e.g., 55******67)
func maskPhone(phone string) string {
	runes := []rune(phone)
	if len(runes) <= 4 {
		return "****"
	}

	// Keep first 2 and last 2 characters, mask the rest
	prefix := string(runes[:2])
	suffix := string(runes[len(runes)-2:])
	masked := strings.Repeat("*", len(runes)-4)
	return prefix + masked + suffix
}

// maskEmail keeps the first character of the local part and the domain (a***@example.com)
func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "****"
	}
	_, size := utf8.DecodeRuneInString(email)
	return email[:size] + "***" + email[at:]
}
