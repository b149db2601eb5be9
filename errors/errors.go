package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func E(op string, err error, message string, code int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidInput(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusBadRequest)
}

func MethodNotAllowed(op string, message string) *AppError {
	return E(op, nil, message, http.StatusMethodNotAllowed)
}

func NotFound(op string, message string) *AppError {
	return E(op, nil, message, http.StatusNotFound)
}

// ResolutionFailure reports that video metadata could not be fetched or parsed.
func ResolutionFailure(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusInternalServerError)
}

// StreamFailure reports that the media stream failed before any byte reached the client.
func StreamFailure(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusInternalServerError)
}

func Internal(op string, err error, message string) *AppError {
	return E(op, err, message, http.StatusInternalServerError)
}

// As returns the *AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
