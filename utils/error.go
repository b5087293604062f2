package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes returned to clients. They are part of the API and must stay stable.
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeSlotUnavailable   = "slot_unavailable"
	CodeSlotAlreadyBooked = "slot_already_booked"
	CodePersistence       = "persistence_failure"
	CodeUnauthorized      = "unauthorized"
	CodeConflict          = "conflict"
)

var defaultMessages = map[string]string{
	CodeValidation:        "The request is missing required fields or contains invalid values.",
	CodeNotFound:          "The requested resource was not found.",
	CodeSlotUnavailable:   "The requested slot is not offered by this artist. Please pick another slot.",
	CodeSlotAlreadyBooked: "The requested slot has already been booked. Please pick another slot.",
	CodePersistence:       "The request could not be completed. Please try again later.",
	CodeUnauthorized:      "Invalid credentials.",
	CodeConflict:          "The resource already exists.",
}

var statusByCode = map[string]int{
	CodeValidation:        http.StatusBadRequest,
	CodeNotFound:          http.StatusNotFound,
	CodeSlotUnavailable:   http.StatusBadRequest,
	CodeSlotAlreadyBooked: http.StatusBadRequest,
	CodePersistence:       http.StatusInternalServerError,
	CodeUnauthorized:      http.StatusUnauthorized,
	CodeConflict:          http.StatusConflict,
}

// AppError is a typed service error. Two AppErrors match under errors.Is when their codes match.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrValidation        = &AppError{Code: CodeValidation, Message: defaultMessages[CodeValidation]}
	ErrNotFound          = &AppError{Code: CodeNotFound, Message: defaultMessages[CodeNotFound]}
	ErrSlotUnavailable   = &AppError{Code: CodeSlotUnavailable, Message: defaultMessages[CodeSlotUnavailable]}
	ErrSlotAlreadyBooked = &AppError{Code: CodeSlotAlreadyBooked, Message: defaultMessages[CodeSlotAlreadyBooked]}
	ErrPersistence       = &AppError{Code: CodePersistence, Message: defaultMessages[CodePersistence]}
	ErrUnauthorized      = &AppError{Code: CodeUnauthorized, Message: defaultMessages[CodeUnauthorized]}
	ErrConflict          = &AppError{Code: CodeConflict, Message: defaultMessages[CodeConflict]}
)

// NewAppError builds an AppError with the given code. An empty message uses the code's default.
func NewAppError(code, message string, err error) *AppError {
	if message == "" {
		message = defaultMessages[code]
	}
	return &AppError{Code: code, Message: message, Err: err}
}

func ValidationError(message string) error {
	return NewAppError(CodeValidation, message, nil)
}

func NotFoundError(message string, err error) error {
	return NewAppError(CodeNotFound, message, err)
}

func PersistenceError(err error) error {
	return NewAppError(CodePersistence, "", err)
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HandleErrors is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Code:    CodePersistence,
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, code, message, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("code", code), zap.String("details", details))
	c.JSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}

// RespondError maps err onto its HTTP status and writes the error body.
// Errors that are not AppErrors are reported as persistence failures without leaking their text.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		GetLogger().Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    CodePersistence,
			Message: defaultMessages[CodePersistence],
		})
		return
	}

	status, ok := statusByCode[appErr.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	details := ""
	if appErr.Err != nil && status < http.StatusInternalServerError {
		details = appErr.Err.Error()
	}
	if status >= http.StatusInternalServerError {
		GetLogger().Error(appErr.Message, zap.String("code", appErr.Code), zap.Error(appErr.Err))
	}
	c.JSON(status, ErrorResponse{Code: appErr.Code, Message: appErr.Message, Details: details})
}
