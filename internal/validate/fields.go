// Package validate turns raw request fields into typed inputs, rejecting
// malformed or missing values before anything touches the store.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/carelink/server/internal/errs"
)

// FieldError describes the first field that failed validation
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + " " + e.Reason }

func (e *FieldError) Unwrap() error { return errs.ErrInvalidInput }

// Fields is the raw field map of one request
type Fields map[string]string

// FromJSON decodes a JSON object body into Fields. Strings, numbers and
// booleans are kept in their textual form; nulls are dropped.
func FromJSON(r io.Reader) (Fields, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FieldError{Field: "body", Reason: "is required"}
		}
		return nil, &FieldError{Field: "body", Reason: "must be a JSON object"}
	}
	if raw == nil {
		return nil, &FieldError{Field: "body", Reason: "must be a JSON object"}
	}

	fields := make(Fields, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		case bool:
			fields[k] = strconv.FormatBool(val)
		default:
			return nil, &FieldError{Field: k, Reason: "must be a string, number or boolean"}
		}
	}
	return fields, nil
}

// FromQuery takes the first value of every query parameter
func FromQuery(values url.Values) Fields {
	fields := make(Fields, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields
}

// value returns the trimmed field; an all-whitespace value counts as absent.
func (f Fields) value(name string) (string, bool) {
	v := strings.TrimSpace(f[name])
	return v, v != ""
}

func (f Fields) required(name string) (string, error) {
	v, ok := f.value(name)
	if !ok {
		return "", &FieldError{Field: name, Reason: "is required"}
	}
	// Postgres TEXT cannot store U+0000
	if strings.ContainsRune(v, 0) {
		return "", &FieldError{Field: name, Reason: "must not contain NUL bytes"}
	}
	return v, nil
}

func fieldErrorf(name, format string, args ...any) error {
	return &FieldError{Field: name, Reason: fmt.Sprintf(format, args...)}
}
