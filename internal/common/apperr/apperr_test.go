package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad input"), KindValidation},
		{"already resolved", AlreadyResolved("raced"), KindAlreadyResolved},
		{"wrapped in fmt.Errorf", fmt.Errorf("submit: %w", Misconfigured("no steps")), KindMisconfigured},
		{"plain error", errors.New("driver broke"), KindInternal},
		{"wrap keeps kind", Wrap(KindConflict, "duplicate", errors.New("dup key")), KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("x"), fiber.StatusUnprocessableEntity},
		{Misconfigured("x"), fiber.StatusUnprocessableEntity},
		{Unauthorized("x"), fiber.StatusForbidden},
		{AlreadyResolved("x"), fiber.StatusConflict},
		{Conflict("x"), fiber.StatusConflict},
		{NotFound("x"), fiber.StatusNotFound},
		{errors.New("x"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
