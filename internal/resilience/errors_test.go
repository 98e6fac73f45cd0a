package resilience

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsTransient_TransientError(t *testing.T) {
	err := NewTransientError(errors.New("overload"), 529)
	if !IsTransient(err) {
		t.Error("TransientError should be transient")
	}

	wrapped := fmt.Errorf("call failed: %w", err)
	if !IsTransient(wrapped) {
		t.Error("wrapped TransientError should be transient")
	}
}

func TestIsTransient_Patterns(t *testing.T) {
	transient := []string{
		"anthropic: create message: 529 overloaded_error",
		"request failed with status 503",
		"rate limit exceeded",
		"read tcp: i/o timeout",
	}
	for _, msg := range transient {
		if !IsTransient(errors.New(msg)) {
			t.Errorf("expected transient: %q", msg)
		}
	}

	permanent := []string{
		"invalid api key",
		"400 bad request",
		"model not found",
	}
	for _, msg := range permanent {
		if IsTransient(errors.New(msg)) {
			t.Errorf("expected permanent: %q", msg)
		}
	}
}

func TestIsTransient_Nil(t *testing.T) {
	if IsTransient(nil) {
		t.Error("nil error is not transient")
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504, 529} {
		if !IsTransientHTTPStatus(code) {
			t.Errorf("expected transient status %d", code)
		}
	}
	for _, code := range []int{200, 400, 401, 403, 404, 422} {
		if IsTransientHTTPStatus(code) {
			t.Errorf("expected non-transient status %d", code)
		}
	}
}
