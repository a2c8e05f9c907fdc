package response

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nhle/taskboard/internal/tasks"
)

// Top-level error codes.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeInternal          = "INTERNAL_ERROR"
)

// Field-level validation codes.
const (
	MissedValue  = "missed_value"
	InvalidValue = "invalid_value"
	TooShort     = "too_short"
	TooLong      = "too_long"
	InPast       = "in_past"
)

// ErrorMessage describes what is wrong with a single field.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error is a failure that knows how to render itself.
type Error interface {
	error
	Status() int
	Code() string
	Details() map[string]ErrorMessage
}

type errorBody struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details map[string]ErrorMessage `json:"details,omitempty"`
}

type failure struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type basicError struct {
	status  int
	code    string
	message string
}

func (e *basicError) Error() string                     { return e.message }
func (e *basicError) Status() int                       { return e.status }
func (e *basicError) Code() string                      { return e.code }
func (e *basicError) Details() map[string]ErrorMessage { return nil }

// ValidationError collects per-field problems.
type ValidationError struct {
	fields map[string]ErrorMessage
}

// NewValidationError creates a ValidationError, optionally seeded with
// field errors.
func NewValidationError(fields ...map[string]ErrorMessage) *ValidationError {
	ve := &ValidationError{fields: make(map[string]ErrorMessage)}
	for _, f := range fields {
		for k, v := range f {
			ve.fields[k] = v
		}
	}
	return ve
}

// SetError records a problem with field.
func (e *ValidationError) SetError(field, code, message string) {
	e.fields[field] = ErrorMessage{Code: code, Message: message}
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool { return len(e.fields) > 0 }

func (e *ValidationError) Error() string                     { return "validation failed" }
func (e *ValidationError) Status() int                       { return http.StatusBadRequest }
func (e *ValidationError) Code() string                      { return CodeValidation }
func (e *ValidationError) Details() map[string]ErrorMessage { return e.fields }

// NewInvalidRequestError reports a body that could not be decoded.
func NewInvalidRequestError(message string) Error {
	return &basicError{status: http.StatusBadRequest, code: CodeInvalidRequest, message: message}
}

// NewUnauthorizedError reports a missing or rejected credential.
func NewUnauthorizedError(message string) Error {
	return &basicError{status: http.StatusUnauthorized, code: CodeUnauthorized, message: message}
}

// NewNotFoundError reports an unknown resource or route.
func NewNotFoundError(message string) Error {
	return &basicError{status: http.StatusNotFound, code: CodeNotFound, message: message}
}

// NewInternalError hides the cause of an unexpected failure.
func NewInternalError() Error {
	return &basicError{status: http.StatusInternalServerError, code: CodeInternal, message: "internal server error"}
}

// ResolveError maps any error onto a renderable Error. Domain errors keep
// their kind and status hint; unknown errors become INTERNAL_ERROR.
func ResolveError(err error) Error {
	var re Error
	if errors.As(err, &re) {
		return re
	}

	var te *tasks.Error
	if errors.As(err, &te) {
		return &basicError{status: te.HTTPStatus(), code: string(te.Kind), message: te.Error()}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return NewNotFoundError(fe.Message)
		case fiber.StatusMethodNotAllowed:
			return &basicError{status: fe.Code, code: CodeMethodNotAllowed, message: fe.Message}
		case fiber.StatusBadRequest:
			return NewInvalidRequestError(fe.Message)
		}
	}

	return NewInternalError()
}

// HandleError writes the failure envelope for err.
func HandleError(c *fiber.Ctx, err error) error {
	re := ResolveError(err)
	return c.Status(re.Status()).JSON(failure{
		Error: errorBody{
			Code:    re.Code(),
			Message: re.Error(),
			Details: re.Details(),
		},
	})
}
