package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an application error so controllers can map it to an HTTP
// status without inspecting message text.
type Kind string

const (
	KindValidation      Kind = "validation_error"
	KindMisconfigured   Kind = "workflow_misconfigured"
	KindUnauthorized    Kind = "unauthorized"
	KindAlreadyResolved Kind = "already_resolved"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error      { return New(KindValidation, message) }
func Misconfigured(message string) *Error   { return New(KindMisconfigured, message) }
func Unauthorized(message string) *Error    { return New(KindUnauthorized, message) }
func AlreadyResolved(message string) *Error { return New(KindAlreadyResolved, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }

// KindOf returns the Kind of err, or KindInternal for anything that is not an
// *Error (db failures, driver errors). Infra details never leak to clients.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code controllers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return fiber.StatusUnprocessableEntity
	case KindMisconfigured:
		return fiber.StatusUnprocessableEntity
	case KindUnauthorized:
		return fiber.StatusForbidden
	case KindAlreadyResolved:
		return fiber.StatusConflict
	case KindConflict:
		return fiber.StatusConflict
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes the standard error payload. Internal errors are masked with a
// generic message; everything else surfaces its kind and human message.
func Respond(ctx *fiber.Ctx, err error) error {
	kind := KindOf(err)
	message := err.Error()
	if kind == KindInternal {
		message = "internal server error"
	} else {
		var e *Error
		if errors.As(err, &e) {
			message = e.Message
		}
	}
	return ctx.Status(HTTPStatus(err)).JSON(fiber.Map{
		"error": message,
		"kind":  string(kind),
	})
}
