package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := NewAppError(ErrCodeInvalidInput, "test error", 400)
	expected := "INVALID_INPUT: test error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestAppError_ErrorWithCause(t *testing.T) {
	cause := errors.New("signing key not configured")
	err := NewTokenGenerationError(cause)
	expected := "TOKEN_GENERATION_FAILED: Failed to generate token (caused by: signing key not configured)"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be in the chain")
	}
}

func TestContractMessages(t *testing.T) {
	// These strings are part of the HTTP contract with the web client.
	missing := NewMissingParameterError()
	if missing.Message != "Missing parameters" || missing.HTTPStatus != http.StatusBadRequest {
		t.Errorf("unexpected missing-parameter error: %+v", missing)
	}

	gen := NewTokenGenerationError(errors.New("boom"))
	if gen.Message != "Failed to generate token" || gen.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("unexpected token-generation error: %+v", gen)
	}
}

func TestGetAppError_Unwraps(t *testing.T) {
	inner := NewUpstreamUnavailableError("Failed to start recording", errors.New("connection refused"))
	wrapped := wrap{inner}

	got := GetAppError(wrapped)
	if got == nil || got.Code != ErrCodeUpstreamUnavailable {
		t.Errorf("GetAppError() = %v, want UPSTREAM_UNAVAILABLE", got)
	}

	if GetAppError(errors.New("plain")) != nil {
		t.Error("expected nil for non-app errors")
	}
}

type wrap struct{ err error }

func (w wrap) Error() string { return w.err.Error() }
func (w wrap) Unwrap() error { return w.err }
