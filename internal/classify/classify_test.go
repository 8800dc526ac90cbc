package classify

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestQuotaClassification(t *testing.T) {
	f := Error(errors.New("Quota exceeded for user"))
	if f.Category != RateLimited {
		t.Fatalf("expected RateLimited, got %s", f.Category)
	}
	if f.RetryAfter != 60*time.Second {
		t.Errorf("expected retry_after 60s, got %s", f.RetryAfter)
	}
	if !f.Retryable {
		t.Error("expected retryable")
	}
}

func TestPermissionClassification(t *testing.T) {
	for _, msg := range []string{"Permission denied", "403 Forbidden"} {
		f := Error(errors.New(msg))
		if f.Category != PermissionDenied {
			t.Errorf("%q: expected PermissionDenied, got %s", msg, f.Category)
		}
		if f.Retryable {
			t.Errorf("%q: permission failures are not retryable", msg)
		}
	}
}

func TestNotFoundClassification(t *testing.T) {
	f := Error(errors.New("Sheet not found"))
	if f.Category != NotFound {
		t.Errorf("expected NotFound, got %s", f.Category)
	}
}

func TestInvalidClassification(t *testing.T) {
	f := Error(errors.New("invalid request: bad range"))
	if f.Category != Validation {
		t.Errorf("expected Validation, got %s", f.Category)
	}
}

func TestUpstreamClassification(t *testing.T) {
	f := Error(errors.New("connection reset by peer"))
	if f.Category != Upstream {
		t.Fatalf("expected Upstream, got %s", f.Category)
	}
	if !f.Retryable {
		t.Error("expected upstream failures retryable")
	}
}

func TestPriorityOrder(t *testing.T) {
	// "limit" outranks "not found" in the fixed rule order.
	f := Error(errors.New("rate limit hit: resource not found"))
	if f.Category != RateLimited {
		t.Errorf("expected RateLimited by priority, got %s", f.Category)
	}
}

func TestUnknownErrorNeverLeaks(t *testing.T) {
	raw := "totally unexpected boom at /etc/credentials.json"
	f := Error(errors.New(raw))
	if f.Category != Internal {
		t.Fatalf("expected Internal, got %s", f.Category)
	}
	if strings.Contains(f.Message, "boom") || strings.Contains(f.Message, "credentials") {
		t.Errorf("client message leaks raw detail: %q", f.Message)
	}
	if f.Raw != raw {
		t.Errorf("expected raw detail retained for audit, got %q", f.Raw)
	}
	if f.Message == raw {
		t.Error("client message must differ from raw error")
	}
}

func TestAlreadyClassifiedPassthrough(t *testing.T) {
	orig := ValidationFailure("sheet_name")
	f := Error(orig)
	if f != orig {
		t.Error("expected classified failure to pass through unchanged")
	}
}

func TestNilError(t *testing.T) {
	if Error(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestValidationFailureNamesParameter(t *testing.T) {
	f := ValidationFailure("spreadsheet_id")
	if f.Category != Validation {
		t.Errorf("expected Validation, got %s", f.Category)
	}
	if !strings.Contains(f.Message, "spreadsheet_id") {
		t.Errorf("expected message to name the parameter, got %q", f.Message)
	}
	if f.Retryable {
		t.Error("validation failures are not retryable")
	}
}

func TestRateLimitFailure(t *testing.T) {
	f := RateLimitFailure(42 * time.Second)
	if f.Category != RateLimited || !f.Retryable {
		t.Error("expected retryable RateLimited failure")
	}
	if f.RetryAfter != 42*time.Second {
		t.Errorf("expected retry_after 42s, got %s", f.RetryAfter)
	}
}

func TestFailureError(t *testing.T) {
	f := NotFoundFailure("echo")
	if !strings.Contains(f.Error(), "not_found") || !strings.Contains(f.Error(), "echo") {
		t.Errorf("unexpected Error(): %q", f.Error())
	}
}
