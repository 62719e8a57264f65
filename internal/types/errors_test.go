// internal/types/errors_test.go
package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	base := E(KindClassifierTransient, "classify", errors.New("503"))
	wrapped := fmt.Errorf("attempt 1: %w", base)

	if got := KindOf(wrapped); got != KindClassifierTransient {
		t.Errorf("expected %s, got %s", KindClassifierTransient, got)
	}
	if !IsKind(wrapped, KindClassifierTransient) {
		t.Error("expected IsKind to match through wrapping")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindUnknown {
		t.Errorf("expected unknown, got %s", got)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Errorf("expected unknown for nil, got %s", got)
	}
}

func TestAuthorizationErrorMessage(t *testing.T) {
	err := fmt.Errorf("handler: %w", &AuthorizationError{Action: "edit", Subject: "thread"})

	if got := KindOf(err); got != KindAuthorizationDenied {
		t.Errorf("expected authorization_denied, got %s", got)
	}
	var ae *AuthorizationError
	if !errors.As(err, &ae) {
		t.Fatal("expected AuthorizationError in chain")
	}
	want := "You don't have permission to edit this thread."
	if ae.Error() != want {
		t.Errorf("expected %q, got %q", want, ae.Error())
	}
}
