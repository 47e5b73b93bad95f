package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookgraph/internal/shared"
	"bookgraph/internal/shared/apperr"
)

var emailShape = regexp.MustCompile(`@`)

// CreateAuthorRequest - POST /v1/authors
type CreateAuthorRequest struct {
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	DateOfBirth *shared.Date `json:"date_of_birth,omitempty"`
}

// Normalize trims surrounding whitespace.
func (r *CreateAuthorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// Validate checks the request against now; errors are apperr validation errors.
func (r CreateAuthorRequest) Validate(now time.Time) error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("must not be empty"),
			validation.RuneLength(MinNameLength, MaxNameLength).Error("must be between 2 and 200 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("must not be empty"),
			validation.RuneLength(1, MaxEmailLength).Error("must be at most 255 characters"),
			validation.Match(emailShape).Error("must contain '@'"),
		),
		validation.Field(&r.DateOfBirth, validation.By(notInFuture(now))),
	))
}

// ToEntity converts CreateAuthorRequest to an Author entity stamped at now.
func (r *CreateAuthorRequest) ToEntity(now time.Time) *Author {
	return &Author{
		Name:        r.Name,
		Email:       r.Email,
		DateOfBirth: r.DateOfBirth.Ptr(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateAuthorRequest - PATCH /v1/authors/:id
// All fields optional; nil fields are left unchanged.
type UpdateAuthorRequest struct {
	Name        *string      `json:"name,omitempty"`
	Email       *string      `json:"email,omitempty"`
	DateOfBirth *shared.Date `json:"date_of_birth,omitempty"`
}

func (r *UpdateAuthorRequest) Normalize() {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
	if r.Email != nil {
		e := strings.TrimSpace(*r.Email)
		r.Email = &e
	}
}

func (r UpdateAuthorRequest) Validate(now time.Time) error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.NilOrNotEmpty.Error("must not be empty"),
			validation.RuneLength(MinNameLength, MaxNameLength).Error("must be between 2 and 200 characters"),
		),
		validation.Field(&r.Email,
			validation.NilOrNotEmpty.Error("must not be empty"),
			validation.RuneLength(1, MaxEmailLength).Error("must be at most 255 characters"),
			validation.Match(emailShape).Error("must contain '@'"),
		),
		validation.Field(&r.DateOfBirth, validation.By(notInFuture(now))),
	))
}

// IsEmpty reports whether no field was supplied.
func (r *UpdateAuthorRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.DateOfBirth == nil
}

// ApplyToEntity applies the supplied fields to author.
func (r *UpdateAuthorRequest) ApplyToEntity(author *Author) {
	if r.Name != nil {
		author.Name = *r.Name
	}
	if r.Email != nil {
		author.Email = *r.Email
	}
	if r.DateOfBirth != nil {
		author.DateOfBirth = r.DateOfBirth.Ptr()
	}
}

func notInFuture(now time.Time) validation.RuleFunc {
	return func(value interface{}) error {
		d, ok := value.(*shared.Date)
		if !ok || d == nil {
			return nil
		}
		if d.Time.After(now) {
			return validation.NewError("validation_date_future", "must not be in the future")
		}
		return nil
	}
}
