package wanikani

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/crabigator-dev/wanikani-go/cache"
	"github.com/crabigator-dev/wanikani-go/srs"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR TAXONOMY
// ══════════════════════════════════════════════════════════════════════════════

// Sentinels from the lower layers, re-exported so callers can range over the
// whole taxonomy with a single import.
var (
	// ErrCacheMiss is returned when a 304 arrives with no stored baseline.
	ErrCacheMiss = cache.ErrMiss

	// ErrResetAtomicity is returned when a reset plan cannot be produced as
	// a whole; no partial state is ever applied.
	ErrResetAtomicity = srs.ErrResetAtomicity
)

// AuthError reports a rejected or missing API token (HTTP 401).
type AuthError struct {
	// Message is the server-provided error text.
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("wanikani: authentication failed: %s", e.Message)
}

// NotFoundError reports a request for a resource that does not exist or is
// not visible to the authenticated user (HTTP 404).
type NotFoundError struct {
	// URL is the request URL that produced the miss.
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("wanikani: not found: %s", e.URL)
}

// ValidationError reports a well-formed request the server rejected on
// semantic grounds (HTTP 422), such as reviewing an unstarted assignment.
type ValidationError struct {
	// Message is the server-provided error text.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wanikani: validation failed: %s", e.Message)
}

// RateLimitedError reports an exhausted quota that persisted through the
// pipeline's single retry after the advertised reset.
type RateLimitedError struct {
	// Reset is the time at which the server said the quota replenishes.
	Reset time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("wanikani: rate limited until %s", e.Reset.Format(time.RFC3339))
}

// TransportError reports a failure below the HTTP layer: connection refused,
// timeout, or an interrupted body read. The server was never heard from, or
// not heard from completely.
type TransportError struct {
	// Op names the failed step.
	Op string

	// Err is the underlying error.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("wanikani: transport failure during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports a response status the client has no dedicated type for.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Message is the server-provided error text, if any.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("wanikani: api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("wanikani: api error: status %d: %s", e.StatusCode, e.Message)
}

// apiMessage extracts the error text from a WaniKani error body, which has
// the shape {"error": "...", "code": NNN}. Falls back when the body is not
// in that shape.
func apiMessage(body []byte, fallback string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fallback
}
