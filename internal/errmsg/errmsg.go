package errmsg

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Code    int
	Message error
}

func NewHTTPError(code int, message error) HTTPError {
	return HTTPError{Code: code, Message: message}
}

func (e *HTTPError) Error() string {
	return e.Message.Error()
}

var (
	ErrRequestPayloadEmpty = NewHTTPError(
		http.StatusBadRequest,
		errors.New("request payload is empty"),
	)

	ErrRequestPayloadInvalid = NewHTTPError(
		http.StatusBadRequest,
		errors.New("request payload is invalid"),
	)
)

var (
	ErrInvalidCredentials = NewHTTPError(
		http.StatusUnauthorized,
		errors.New("invalid username or password"),
	)

	ErrUnauthorized = NewHTTPError(
		http.StatusUnauthorized,
		errors.New("admin access required"),
	)

	ErrDuplicateUsername = NewHTTPError(
		http.StatusBadRequest,
		errors.New("username already exists"),
	)
)

var ErrLedgerPurgeFailed = NewHTTPError(
	http.StatusInternalServerError,
	errors.New("failed to delete all transactions"),
)
