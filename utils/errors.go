package utils

import (
	"errors"
	"net/http"
)

// AppError carries the HTTP status and the client-safe message. Err is logged, never sent.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(status int, message string, err error) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}

func ErrBadRequest(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func ErrAlreadyExists(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func ErrNotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

func ErrConflict(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

func ErrServer(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: "Server error", Err: err}
}

var (
	ErrInvalidCredentials = &AppError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	ErrUnauthorized       = &AppError{Status: http.StatusUnauthorized, Message: "Authentication required"}
	ErrTokenInvalid       = &AppError{Status: http.StatusUnauthorized, Message: "Invalid or expired token"}
	ErrForbidden          = &AppError{Status: http.StatusForbidden, Message: "Admin access required"}
	ErrCustomerOnly       = &AppError{Status: http.StatusForbidden, Message: "Customer access required"}
	ErrInvalidSignature   = &AppError{Status: http.StatusBadRequest, Message: "Invalid payment signature"}
	ErrTooManyRequests    = &AppError{Status: http.StatusTooManyRequests, Message: "Too many requests, please try again later"}
)

// AsAppError converts any error into an AppError, defaulting to a 500.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrServer(err)
}
