// Package classify maps arbitrary backend failures into a closed,
// client-safe error taxonomy. Raw error text never leaves the gateway
// for unclassified failures — the caller sees a fixed generic message
// while the raw detail stays on the audit path.
package classify

import (
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of client-facing error categories.
type Category string

const (
	Validation       Category = "validation"
	RateLimited      Category = "rate_limited"
	Upstream         Category = "upstream"
	NotFound         Category = "not_found"
	PermissionDenied Category = "permission_denied"
	Internal         Category = "internal"
	Unknown          Category = "unknown"
)

// Failure is a classified, client-safe error. Message is always safe
// to return to a caller; Raw holds the original text for the audit
// path and is never serialized.
type Failure struct {
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Retryable  bool          `json:"retryable"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
	Raw        string        `json:"-"`
}

// Error implements the error interface with the client-safe message.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Category, f.Message)
}

// quotaRetryHint is the fixed retry hint attached to backend quota
// errors, matching the backend's documented cool-off.
const quotaRetryHint = 60 * time.Second

// Substring rules checked in order; first match wins.
var rules = []struct {
	substrings []string
	category   Category
}{
	{[]string{"quota", "limit"}, RateLimited},
	{[]string{"permission", "forbidden"}, PermissionDenied},
	{[]string{"not found"}, NotFound},
	{[]string{"invalid"}, Validation},
	{[]string{"timeout", "unavailable", "connection"}, Upstream},
}

// Error classifies a raw failure surfaced from operation execution.
// Already-classified failures pass through unchanged so gateway-origin
// denials keep their category.
func Error(err error) *Failure {
	if err == nil {
		return nil
	}
	if f, ok := err.(*Failure); ok {
		return f
	}

	raw := err.Error()
	lower := strings.ToLower(raw)

	for _, r := range rules {
		for _, sub := range r.substrings {
			if strings.Contains(lower, sub) {
				return build(r.category, raw)
			}
		}
	}
	return build(Internal, raw)
}

func build(c Category, raw string) *Failure {
	f := &Failure{Category: c, Raw: raw}
	switch c {
	case RateLimited:
		f.Message = "API quota exceeded. Please try again later."
		f.Retryable = true
		f.RetryAfter = quotaRetryHint
	case PermissionDenied:
		f.Message = "Insufficient permissions for this operation."
	case NotFound:
		f.Message = "The requested resource was not found."
	case Validation:
		f.Message = "Invalid request parameters."
	case Upstream:
		f.Message = "The backend service is temporarily unavailable."
		f.Retryable = true
	default:
		f.Message = "An unexpected error occurred."
	}
	return f
}

// ValidationFailure builds a Validation failure naming the offending
// parameter. Gateway-origin: the message is already client-safe.
func ValidationFailure(param string) *Failure {
	return &Failure{
		Category: Validation,
		Message:  fmt.Sprintf("invalid or missing parameter: %s", param),
		Raw:      fmt.Sprintf("invalid or missing parameter: %s", param),
	}
}

// RateLimitFailure builds a RateLimited failure advertising when the
// caller may retry.
func RateLimitFailure(retryAfter time.Duration) *Failure {
	return &Failure{
		Category:   RateLimited,
		Message:    "Too many requests. Please slow down.",
		Retryable:  true,
		RetryAfter: retryAfter,
		Raw:        "admission denied by rate limiter",
	}
}

// NotFoundFailure builds a NotFound failure for an unknown method.
func NotFoundFailure(method string) *Failure {
	return &Failure{
		Category: NotFound,
		Message:  fmt.Sprintf("unknown method: %s", method),
		Raw:      fmt.Sprintf("unknown method: %s", method),
	}
}
