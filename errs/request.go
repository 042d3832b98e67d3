package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	Unauthorized = NewUnauthorizedError("login required")
)

// Malformed is returned when a request body cannot be decoded.
func Malformed(payloadName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%s malformed: %w", payloadName, ErrMalformedPayload),
		Field:      "payload",
	}
}

// NewMissingRequiredFieldError uses message verbatim so handlers can keep
// user-facing wording such as "Username and email are required".
func NewMissingRequiredFieldError(field, message string) *ApiErr {
	if message == "" {
		message = fmt.Sprintf("%s is required", field)
	}
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%s%w", message, silent(ErrMissingRequiredField)),
		Field:      field,
	}
}

func NewInvalidFieldError(field, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%s%w", message, silent(ErrInvalidField)),
		Field:      field,
	}
}

func NewUnsupportedMediaTypeError(field, contentType string, allowed []string, message string) *ApiErr {
	if message == "" {
		message = fmt.Sprintf("unsupported media type %q, allowed: %s", contentType, strings.Join(allowed, ", "))
	}
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%s%w", message, silent(ErrUnsupportedMediaType)),
		Field:      field,
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        fmt.Errorf("File too large (max %s)%w", humanize.IBytes(uint64(maxSize)), silent(ErrMaxBodySizeExceeded)),
		Field:      "body_size",
	}
}

func IsMissingRequiredFieldError(err error) bool {
	return errors.Is(err, ErrMissingRequiredField)
}

func IsInvalidFieldError(err error) bool {
	return errors.Is(err, ErrInvalidField)
}

func IsMaxBodySizeExceededError(err error) bool {
	return errors.Is(err, ErrMaxBodySizeExceeded)
}

// silentErr keeps a sentinel in the chain without adding text to the message.
type silentErr struct{ sentinel error }

func (s silentErr) Error() string { return "" }
func (s silentErr) Unwrap() error { return s.sentinel }

func silent(sentinel error) error { return silentErr{sentinel} }
