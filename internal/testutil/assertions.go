package testutil

import (
	"errors"
	"strings"
	"testing"

	apperrors "expensetracker/internal/errors"
)

// appError unwraps err into an *AppError or fails the test.
func appError(t *testing.T, err error, expectedCode string) *apperrors.AppError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s, got nil", expectedCode)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr
}

// AssertAppError checks that err is an *AppError with the expected code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if appErr := appError(t, err, expectedCode); appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertAppErrorMentions checks the code and that the message names every
// given fragment, e.g. the fields of a multi-field validation failure.
func AssertAppErrorMentions(t *testing.T, err error, expectedCode string, fragments ...string) {
	t.Helper()

	appErr := appError(t, err, expectedCode)
	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
	for _, f := range fragments {
		if !strings.Contains(appErr.Message, f) {
			t.Errorf("expected message %q to mention %q", appErr.Message, f)
		}
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
