package httpx

import (
	"errors"
	"net/http"
)

// Error classes the business modules wrap their sentinels in so handlers can
// map failures to responses without per-module status tables.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrValidation = errors.New("validation failed")
)

// classed pairs a caller-facing message with one of the error classes. The
// message becomes the problem detail, the class decides the status code.
type classed struct {
	class error
	msg   string
}

func (e *classed) Error() string { return e.msg }
func (e *classed) Unwrap() error { return e.class }

// NotFound builds an error matching ErrNotFound that reads as msg.
func NotFound(msg string) error {
	return &classed{class: ErrNotFound, msg: msg}
}

// Duplicate builds an error matching ErrDuplicate that reads as msg.
func Duplicate(msg string) error {
	return &classed{class: ErrDuplicate, msg: msg}
}

// Invalid builds an error matching ErrValidation that reads as msg.
func Invalid(msg string) error {
	return &classed{class: ErrValidation, msg: msg}
}

// IsClientError reports whether err carries one of the error classes and
// therefore maps to a 4xx response.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrValidation)
}

// detail extracts the classed message, dropping any wrapping context the
// error picked up on its way through the service layer.
func detail(err error) string {
	var c *classed
	if errors.As(err, &c) {
		return c.msg
	}
	return err.Error()
}

// RespondError maps classed domain errors to HTTP responses using RFC7807.
// Errors outside the known classes become an opaque 500; callers are expected
// to log those before handing them here.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", detail(err))
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", detail(err))
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", detail(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
