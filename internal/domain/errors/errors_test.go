package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecificErrorsWrapCategory(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{ErrUnauthenticated, ErrUnauthorized},
		{ErrNotCreator, ErrUnauthorized},
		{ErrNotApplicationOwner, ErrUnauthorized},
		{ErrSelfApplication, ErrUnauthorized},
		{ErrProjectNotFound, ErrNotFound},
		{ErrSlugTaken, ErrConflict},
		{ErrDuplicateApplication, ErrConflict},
		{ErrSlugExhausted, ErrConflict},
	}
	for _, c := range cases {
		assert.ErrorIs(t, c.err, c.kind, c.err.Error())
		assert.ErrorIs(t, fmt.Errorf("wrapped: %w", c.err), c.err)
	}
	assert.False(t, errors.Is(ErrSlugTaken, ErrDuplicateApplication))
}

func TestValidationError(t *testing.T) {
	err := NewValidation("name", "is required")
	assert.Equal(t, "name: is required", err.Error())
	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	assert.True(t, errors.As(fmt.Errorf("create: %w", err), &ve))
	assert.Equal(t, "name", ve.Field)
}

func TestProfileRequiredError(t *testing.T) {
	var err error = &ProfileRequiredError{Destination: "/p/x", SetupPath: "/setup-profile?redirect=%2Fp%2Fx"}
	assert.ErrorIs(t, err, ErrProfileRequired)
	assert.Contains(t, err.Error(), "/p/x")
}

func TestUnavailable(t *testing.T) {
	assert.NoError(t, Unavailable("op", nil))

	cause := errors.New("connection refused")
	err := Unavailable("get project", cause)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)

	again := Unavailable("outer", err)
	assert.Equal(t, err, again)
}
