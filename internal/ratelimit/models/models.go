// Package models holds the rate limiting types shared by stores and middleware.
package models

import (
	"strings"
	"time"
)

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassRead: lookups such as GET /items and GET /render/uri.
	ClassRead EndpointClass = "read"
	// ClassWrite: customize, fill, registrations and render requests.
	ClassWrite EndpointClass = "write"
)

// Limit is a sliding-window budget.
type Limit struct {
	Requests int
	Window   time.Duration
}

type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the API response when rate limit is exceeded.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// SanitizeKeySegment escapes the key delimiter so a principal such as
// "erd1:admin" cannot address another bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// BucketKey builds the store key of one client's budget for class.
// kind is "caller" or "ip".
func BucketKey(class EndpointClass, kind, id string) string {
	return "ratelimit:" + string(class) + ":" + kind + ":" + SanitizeKeySegment(id)
}
