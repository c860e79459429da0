package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeStorageFailure, "storage down", http.StatusInternalServerError)
	if !err.Retryable {
		t.Error("STORAGE_FAILURE should be retryable")
	}
}

func TestAppError_Error_WithCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := StorageFailure(cause)
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	msg := err.Error()
	if msg == "" {
		t.Fatal("expected non-empty error string")
	}
	want := fmt.Sprintf("%s: %s (cause: %v)", err.Code, err.Message, cause)
	if msg != want {
		t.Errorf("expected %q, got %q", want, msg)
	}
}

func TestInvalidCredential_MapsToForbidden(t *testing.T) {
	err := InvalidCredential()
	if err.HTTPStatus != http.StatusForbidden {
		t.Errorf("expected 403, got %d", err.HTTPStatus)
	}
	if err.Code != ErrCodeInvalidCredential {
		t.Errorf("expected INVALID_CREDENTIAL, got %s", err.Code)
	}
}

func TestIdentityConflict_MapsToForbidden(t *testing.T) {
	err := IdentityConflict()
	if err.HTTPStatus != http.StatusForbidden {
		t.Errorf("expected 403, got %d", err.HTTPStatus)
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	inner := Validation("bad input")
	wrapped := fmt.Errorf("handler: %w", inner)

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected wrapped AppError to be detected")
	}
	if appErr.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
}

func TestAsAppError_PlainError(t *testing.T) {
	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("plain error should not convert to AppError")
	}
}

func TestToResponse_OmitsStatus(t *testing.T) {
	err := Forbidden("").WithDetail("gate", "visibility")
	resp := err.ToResponse()
	if resp.Error.Code != ErrCodeForbidden {
		t.Errorf("expected FORBIDDEN, got %s", resp.Error.Code)
	}
	if resp.Error.Details["gate"] != "visibility" {
		t.Error("expected details to carry through")
	}
}
