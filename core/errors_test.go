package core

import (
	stderrors "errors"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	errTaken := errors.New("taken")

	err := NewFieldError("email", errTaken)
	var vErr *ValidationError
	if assert.True(t, stderrors.As(err, &vErr)) {
		assert.Equal(t, map[string]string{"email": "taken"}, vErr.FieldMap())
	}
	assert.True(t, stderrors.Is(err, errTaken))
	assert.Equal(t, "taken", err.Error())

	noErr := NewValidationError(nil, FieldError{Field: "level", Error: "is required"})
	assert.Equal(t, "level: is required", noErr.Error())
	assert.Nil(t, NewValidationError(errTaken).(*ValidationError).FieldMap())
}

func TestIsShutdown(t *testing.T) {
	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("bye"), "serving")))
	assert.False(t, IsShutdown(errors.New("bye")))
}
