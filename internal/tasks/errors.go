package tasks

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nhle/taskboard/internal/model"
)

// Kind is the machine-readable category of a domain failure.
type Kind string

// Failure kinds surfaced by the service.
const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
)

// Error is a typed domain failure. From and To are set only for
// KindInvalidTransition.
type Error struct {
	Kind    Kind
	Message string
	From    model.Status
	To      model.Status
}

// Sentinels for errors.Is comparisons; only Kind is compared.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
)

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// HTTPStatus is the status code a transport should answer with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidTransition:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func notFound(id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("task %s not found", id),
	}
}

func invalidTransition(from, to model.Status) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot change status from %s to %s", from, to),
		From:    from,
		To:      to,
	}
}
