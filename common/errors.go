package common

import (
	"encoding/json"
	"go-shop-api/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError is returned for missing or malformed input.
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

// NewNotFoundError is returned when the requested resource does not exist.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, nil)
}

// NewDuplicateKeyError is returned on a uniqueness violation.
func NewDuplicateKeyError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

// NewUnauthorizedError is returned for a missing, invalid or expired
// token or credential.
func NewUnauthorizedError(message string, err error) *AppError {
	return NewAppError(http.StatusUnauthorized, message, err)
}

// NewForbiddenError is returned when the caller's role is not allowed.
func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, nil)
}

// NewUpstreamError is returned when the store or an external
// collaborator fails. The raw error is logged, never exposed.
func NewUpstreamError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
