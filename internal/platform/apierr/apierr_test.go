package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHelpersKeepMessageAndSentinel(t *testing.T) {
	err := BadRequest("not_subscribed", "Not subscribed")
	if err.Error() != "Not subscribed" {
		t.Fatalf("message: %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument")
	}
	wrapped := fmt.Errorf("subscribe: %w", err)
	status, code := StatusOf(wrapped)
	if status != http.StatusBadRequest || code != "not_subscribed" {
		t.Fatalf("StatusOf: %d %q", status, code)
	}
}

func TestStatusOfSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrConflict, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
		{NotFound("recipe_not_found", "recipe not found"), http.StatusNotFound},
		{Forbidden("permission_denied", "no"), http.StatusForbidden},
		{Unauthorized("invalid_token", "invalid token"), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		if got, _ := StatusOf(tc.err); got != tc.want {
			t.Fatalf("StatusOf(%v): want=%d got=%d", tc.err, tc.want, got)
		}
	}
}
