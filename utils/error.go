package utils

import (
	"errors"
	"net/http"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ErrorKind is the machine-readable error class surfaced to API callers.
type ErrorKind string

const (
	ErrorKindValidation     ErrorKind = "validation"
	ErrorKindAuthentication ErrorKind = "authentication"
	ErrorKindConflict       ErrorKind = "conflict"
	ErrorKindNotFound       ErrorKind = "not_found"
	ErrorKindInvalidState   ErrorKind = "invalid_state"
	ErrorKindInternal       ErrorKind = "internal"
)

type ApiError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ApiError {
	return &ApiError{Kind: ErrorKindValidation, Message: message}
}

func NewAuthenticationError(message string) *ApiError {
	return &ApiError{Kind: ErrorKindAuthentication, Message: message}
}

func NewConflictError(message string) *ApiError {
	return &ApiError{Kind: ErrorKindConflict, Message: message}
}

func NewNotFoundError(message string) *ApiError {
	return &ApiError{Kind: ErrorKindNotFound, Message: message}
}

func NewInvalidStateError(message string) *ApiError {
	return &ApiError{Kind: ErrorKindInvalidState, Message: message}
}

var ErrorRecordNotFound = NewNotFoundError("record not found")

// AsApiError classifies any error into an ApiError.
// gorm's not-found and MySQL duplicate-key errors get their proper kinds;
// everything unclassified is internal.
func AsApiError(err error) *ApiError {
	if err == nil {
		return nil
	}
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("record not found")
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return NewConflictError("duplicate record")
	}
	return &ApiError{Kind: ErrorKindInternal, Message: err.Error()}
}

func HTTPStatus(err error) int {
	switch AsApiError(err).Kind {
	case ErrorKindValidation, ErrorKindInvalidState:
		return http.StatusBadRequest
	case ErrorKindAuthentication:
		return http.StatusUnauthorized
	case ErrorKindConflict:
		return http.StatusConflict
	case ErrorKindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
