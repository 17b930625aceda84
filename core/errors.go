package core

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// ErrNotFound is returned whenever a resource does not resolve within the
// caller's visible scope. Cross-student lookups map here on purpose so that
// existence is never leaked.
var ErrNotFound = errors.New("not found")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// PermissionError covers both role mismatches and ownership violations; both
// surface as 403 but carry their own message.
type PermissionError struct {
	message string
}

func NewPermissionError(msg string) error {
	return &PermissionError{message: msg}
}

func (err PermissionError) Error() string {
	return err.message
}

// ProfileMissingError flags a role-matching identity whose one-to-one profile
// record is absent. This is a data-integrity condition distinct from a
// permission error and must never be merged into a generic "access denied".
type ProfileMissingError struct {
	Role string
}

func NewProfileMissingError(role string) error {
	return &ProfileMissingError{Role: role}
}

func (err ProfileMissingError) Error() string {
	return err.Role + " profile not configured; contact an administrator"
}

// ConflictError reports a uniqueness violation that escaped validation
// (a race between check and write).
type ConflictError struct {
	message string
}

func NewConflictError(msg string) error {
	return &ConflictError{message: msg}
}

func (err ConflictError) Error() string {
	return err.message
}

// MailError reports a mail collaborator failure. It is surfaced distinctly
// from other server errors so callers can tell delivery failed.
type MailError struct {
	Err error
}

func NewMailError(err error) error {
	return &MailError{Err: err}
}

func (err MailError) Error() string {
	return "email delivery failed"
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := pkgerrors.Cause(err).(*shutdown)
	return ok
}
