package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestConstructorsCarryStatusAndSentinel(t *testing.T) {
	tests := []struct {
		err      *ApiErr
		status   int
		sentinel error
	}{
		{NewNotFoundError("Project not found"), http.StatusNotFound, ErrNotFound},
		{NewForbiddenError("not the creator"), http.StatusForbidden, ErrForbidden},
		{NewConflictError("User already exists"), http.StatusBadRequest, ErrConflict},
		{NewUnauthorizedError("bad credentials"), http.StatusUnauthorized, ErrUnauthorized},
		{NewMissingRequiredFieldError("name", ""), http.StatusBadRequest, ErrMissingRequiredField},
		{NewInvalidFieldError("years", "Invalid years value"), http.StatusBadRequest, ErrInvalidField},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode, tt.err.Error())
		assert.ErrorIs(t, tt.err, tt.sentinel)
	}
}

func TestMessagesStayUserFacing(t *testing.T) {
	assert.Equal(t, "Invalid years value", NewInvalidFieldError("years", "Invalid years value").Error())
	assert.Equal(t, "name is required", NewMissingRequiredFieldError("name", "").Error())
	assert.Equal(t, "Only audio files allowed",
		NewUnsupportedMediaTypeError("file", "text/plain", nil, "Only audio files allowed").Error())
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	err := NewInternalErrorWithCause("upload demo", errors.New("s3: access denied"))
	assert.Equal(t, InternalMessage, err.PublicMessage())
	assert.Contains(t, err.GetFullError(), "access denied")

	assert.Equal(t, "Project not found", NewNotFoundError("Project not found").PublicMessage())
}

func TestNewDatabaseErrorClassification(t *testing.T) {
	notFound := NewDatabaseError("find", "project", fmt.Errorf("query: %w", gorm.ErrRecordNotFound))
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.True(t, IsNotFound(notFound))

	dupPg := NewDatabaseError("create", "user", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_username"`))
	assert.Equal(t, http.StatusBadRequest, dupPg.StatusCode)
	assert.True(t, IsConflict(dupPg))

	dupLite := NewDatabaseError("create", "user", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"))
	assert.True(t, IsConflict(dupLite))

	generic := NewDatabaseError("update", "task", errors.New("disk I/O error"))
	assert.Equal(t, http.StatusInternalServerError, generic.StatusCode)

	passthrough := NewDatabaseError("find", "demo", NewNotFoundError("Demo not found or unauthorized"))
	assert.Equal(t, http.StatusNotFound, passthrough.StatusCode)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, StatusCode(fmt.Errorf("wrapped: %w", NewForbiddenError("x"))))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}

func TestMaxBodySizeExceeded(t *testing.T) {
	err := NewMaxBodySizeExceededError(25 << 20)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.StatusCode)
	assert.Equal(t, "File too large (max 25 MiB)", err.Error())
	assert.True(t, IsMaxBodySizeExceededError(err))
}
