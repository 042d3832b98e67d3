package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrStorageUnavailable = errors.New("object storage unavailable")
	ErrStorageOperation   = errors.New("object storage operation failed")
)

func NewStorageError(operation, key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("storage %s %q: %w", operation, key, ErrStorageOperation),
		Cause:      cause,
	}
}

func NewConfigError(name string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("%s is not configured: %w", name, ErrStorageUnavailable),
	}
}
