package repo

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/carelink/server/internal/errs"
)

// Postgres SQLSTATE codes for integrity constraint violations.
const (
	uniqueViolation          pq.ErrorCode = "23505"
	foreignKeyViolation      pq.ErrorCode = "23503"
	characterNotInRepertoire pq.ErrorCode = "22021"
)

// constraintFields maps schema constraint names to the request field they guard.
var constraintFields = map[string]string{
	"accounts_email_key":     "email",
	"accounts_phone_key":     "phone",
	"doctors_email_key":      "email",
	"doctors_phone_key":      "phone",
	"messages_sender_fkey":   "sender",
	"messages_receiver_fkey": "receiver",
}

// ConstraintError reports which store constraint rejected a write.
// It unwraps to errs.ErrConflict for uniqueness violations and errs.ErrNotFound
// for foreign key violations.
type ConstraintError struct {
	Constraint string
	Field      string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: constraint %s", e.Err, e.Constraint)
	}
	return fmt.Sprintf("%s: %s (constraint %s)", e.Err, e.Field, e.Constraint)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// classify turns driver constraint violations into *ConstraintError, text the
// store cannot encode into errs.ErrInvalidInput, and leaves other errors untouched.
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if pqErr.Code == characterNotInRepertoire {
		return fmt.Errorf("%s: %w", pqErr.Message, errs.ErrInvalidInput)
	}

	var kind error
	switch pqErr.Code {
	case uniqueViolation:
		kind = errs.ErrConflict
	case foreignKeyViolation:
		kind = errs.ErrNotFound
	default:
		return err
	}

	return &ConstraintError{
		Constraint: pqErr.Constraint,
		Field:      constraintFields[pqErr.Constraint],
		Err:        kind,
	}
}
