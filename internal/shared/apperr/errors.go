// Package apperr defines the error kinds returned by the command and integrity layers.
//
// Every write-path failure is an *Error carrying the offending field (or relationship)
// and the violated rule, so callers can correct input and retry without guessing.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind classifies an Error.
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindReferenceNotFound  Kind = "REFERENCE_NOT_FOUND"
	KindDependencyConflict Kind = "DEPENDENCY_CONFLICT"
	KindDuplicateKey       Kind = "DUPLICATE_KEY"
	KindNotFound           Kind = "NOT_FOUND"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrReferenceNotFound  = &Error{Kind: KindReferenceNotFound}
	ErrDependencyConflict = &Error{Kind: KindDependencyConflict}
	ErrDuplicateKey       = &Error{Kind: KindDuplicateKey}
	ErrNotFound           = &Error{Kind: KindNotFound}
)

// Error is a classified domain error.
type Error struct {
	Kind    Kind
	Field   string            // field or relationship at fault
	Rule    string            // rule that was violated
	Details map[string]string // per-field reasons, validation only
}

func (e *Error) Error() string {
	if e.Field == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Rule)
}

// Is reports whether target is a sentinel of the same kind, or an identical error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Field == "" && t.Rule == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Field == e.Field && t.Rule == e.Rule
}

func Validation(field, rule string) *Error {
	return &Error{Kind: KindValidation, Field: field, Rule: rule}
}

func ReferenceNotFound(field string, id int64) *Error {
	return &Error{
		Kind:  KindReferenceNotFound,
		Field: field,
		Rule:  fmt.Sprintf("referenced author %d does not exist", id),
	}
}

func DependencyConflict(relationship string, count int64) *Error {
	return &Error{
		Kind:  KindDependencyConflict,
		Field: relationship,
		Rule:  fmt.Sprintf("author is still referenced by %d book(s)", count),
	}
}

func DuplicateKey(field, value string) *Error {
	return &Error{
		Kind:  KindDuplicateKey,
		Field: field,
		Rule:  fmt.Sprintf("%q is already used by another author", value),
	}
}

func NotFound(entity string, id int64) *Error {
	return &Error{
		Kind:  KindNotFound,
		Field: entity,
		Rule:  fmt.Sprintf("%s %d not found", entity, id),
	}
}

// FromValidation converts ozzo-validation errors into a KindValidation *Error.
// The first field in lexical order becomes Field; all reasons land in Details.
// Errors that are not validation.Errors are returned unchanged.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for f := range verrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	details := make(map[string]string, len(fields))
	for _, f := range fields {
		details[f] = verrs[f].Error()
	}
	return &Error{
		Kind:    KindValidation,
		Field:   fields[0],
		Rule:    details[fields[0]],
		Details: details,
	}
}

// KindOf returns the kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ToHTTPStatus maps an error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindReferenceNotFound:
		return http.StatusUnprocessableEntity
	case KindDependencyConflict, KindDuplicateKey:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
