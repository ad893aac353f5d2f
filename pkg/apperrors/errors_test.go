package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("Validation failed", nil), http.StatusBadRequest},
		{NotFound("User not found"), http.StatusNotFound},
		{Duplicate("Email address already exists"), http.StatusConflict},
		{Database("Database operation failed", errors.New("conn refused")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.status {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}
}

func TestFromUnwrapsWrappedError(t *testing.T) {
	inner := NotFound("User not found")
	wrapped := fmt.Errorf("listing users: %w", inner)

	ae, ok := From(wrapped)
	if !ok {
		t.Fatal("From must see through fmt.Errorf wrapping")
	}
	if ae.Kind != KindNotFound || ae.Message != "User not found" {
		t.Fatalf("unexpected error: %+v", ae)
	}
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound must see through wrapping")
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Database("Database operation failed", cause)
	if err.Error() != "Database operation failed: connection reset" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("cause must be reachable via errors.Is")
	}
}

func TestValidationDetails(t *testing.T) {
	err := Validation("Validation failed", map[string]string{"email": "Valid email address is required"})
	ae, ok := From(err)
	if !ok || ae.Details["email"] != "Valid email address is required" {
		t.Fatalf("details lost: %+v", ae)
	}
}
