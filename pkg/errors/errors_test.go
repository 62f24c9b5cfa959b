package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentityForErrorsIs(t *testing.T) {
	err := Clone(ErrNotFound, "Student not found")
	wrapped := fmt.Errorf("lookup: %w", err)

	assert.True(t, stderrors.Is(wrapped, ErrNotFound))
	assert.False(t, stderrors.Is(wrapped, ErrValidation))
	assert.Equal(t, "Student not found", err.Error())
}

func TestFromErrorUsesUnderlyingMessage(t *testing.T) {
	appErr := FromError(stderrors.New("quota exceeded"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "quota exceeded", appErr.Message)
	assert.Equal(t, "quota exceeded", appErr.Error())
}

func TestFromErrorPassesTypedErrorsThrough(t *testing.T) {
	original := Validation("Email is required")
	appErr := FromError(fmt.Errorf("create: %w", original))

	assert.Same(t, original, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}
