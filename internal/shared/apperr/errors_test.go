package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	t.Run("matches sentinel of same kind", func(t *testing.T) {
		err := DuplicateKey("email", "a@x.com")
		assert.ErrorIs(t, err, ErrDuplicateKey)
		assert.NotErrorIs(t, err, ErrValidation)
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("create author: %w", ReferenceNotFound("author_id", 7))
		assert.ErrorIs(t, err, ErrReferenceNotFound)
		assert.Equal(t, KindReferenceNotFound, KindOf(err))
	})

	t.Run("plain errors have no kind", func(t *testing.T) {
		assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	})
}

func TestErrorMessageNamesFieldAndRule(t *testing.T) {
	err := DependencyConflict("books", 2)
	assert.Equal(t, "books: author is still referenced by 2 book(s)", err.Error())
}

func TestFromValidation(t *testing.T) {
	verrs := validation.Errors{
		"title": errors.New("cannot be blank"),
		"price": errors.New("must be no less than 0"),
	}

	err := FromValidation(verrs)

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Equal(t, "price", appErr.Field)
	assert.Equal(t, "must be no less than 0", appErr.Rule)
	assert.Len(t, appErr.Details, 2)
}

func TestFromValidationPassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("db down")
	assert.Same(t, plain, FromValidation(plain))
	assert.NoError(t, FromValidation(nil))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[error]int{
		Validation("title", "cannot be blank"): http.StatusBadRequest,
		ReferenceNotFound("author_id", 1):      http.StatusUnprocessableEntity,
		DependencyConflict("books", 1):         http.StatusConflict,
		DuplicateKey("email", "a@x.com"):       http.StatusConflict,
		NotFound("book", 1):                    http.StatusNotFound,
		errors.New("other"):                    http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(err), err.Error())
	}
}
