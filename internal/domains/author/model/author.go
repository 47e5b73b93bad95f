package model

import (
	"strings"
	"time"
)

// Constants for validation
const (
	MaxNameLength  = 200
	MinNameLength  = 2
	MaxEmailLength = 255
)

// Author is owned exclusively by the Author store.
type Author struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Email       string     `json:"email" db:"email"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// NormalizeEmail is the form used for case-insensitive email comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasEmail reports whether the author holds email, ignoring case.
func (a *Author) HasEmail(email string) bool {
	return NormalizeEmail(a.Email) == NormalizeEmail(email)
}

// AgeAt returns full years lived at now, nil when the date of birth is unknown.
func (a *Author) AgeAt(now time.Time) *int {
	if a.DateOfBirth == nil {
		return nil
	}
	dob := *a.DateOfBirth
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return &years
}

// AuthorFilter is the get-by-predicate query of the Author store.
// Zero-valued fields do not constrain the result.
type AuthorFilter struct {
	IDs          []int64 `json:"ids" form:"ids"`
	Email        string  `json:"email" form:"email"` // exact, case-insensitive
	NameContains string  `json:"search" form:"search"`
	Limit        int     `json:"limit" form:"limit"`
	Offset       int     `json:"offset" form:"offset"`
}

// Matches evaluates the predicate against a single author. Limit and Offset are ignored.
func (f AuthorFilter) Matches(a *Author) bool {
	if len(f.IDs) > 0 {
		found := false
		for _, id := range f.IDs {
			if id == a.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Email != "" && !a.HasEmail(f.Email) {
		return false
	}
	if f.NameContains != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(f.NameContains)) {
		return false
	}
	return true
}
