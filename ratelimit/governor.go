// Package ratelimit implements the client-side rate governor for the
// WaniKani API.
//
// The API enforces 60 requests per minute and reports quota state on every
// response through the RateLimit-Limit, RateLimit-Remaining and
// RateLimit-Reset headers (reset is epoch seconds). The governor mirrors
// that state: it is consulted before every request and updated after every
// response, including error responses. It never fails on its own; it only
// informs scheduling.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Response header names.
const (
	HeaderLimit     = "Ratelimit-Limit"
	HeaderRemaining = "Ratelimit-Remaining"
	HeaderReset     = "Ratelimit-Reset"
)

// DefaultLimit is the documented request quota per period, assumed until the
// first response reports otherwise.
const DefaultLimit = 60

// Governor tracks the remaining quota and reset time for one client
// instance. It is safe for concurrent use; updates are read-modify-write
// under a single mutex. State lives for the client's lifetime only.
type Governor struct {
	mu        sync.Mutex
	limit     int
	remaining int
	reset     time.Time

	// now is replaceable in tests.
	now func() time.Time
}

// NewGovernor creates a governor with a full quota.
func NewGovernor() *Governor {
	return &Governor{
		limit:     DefaultLimit,
		remaining: DefaultLimit,
		now:       time.Now,
	}
}

// Delay returns how long the caller must wait before sending the next
// request: zero while quota remains, otherwise the time until the reported
// reset, floored at zero.
func (g *Governor) Delay() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.remaining > 0 {
		return 0
	}
	wait := g.reset.Sub(g.now())
	if wait < 0 {
		return 0
	}
	return wait
}

// Observe updates the quota state from response headers. It is called after
// every response, success or error; headers that are absent or malformed
// leave the corresponding field unchanged.
func (g *Governor) Observe(headers http.Header) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if v, ok := headerInt(headers, HeaderLimit); ok {
		g.limit = v
	}
	if v, ok := headerInt(headers, HeaderRemaining); ok {
		g.remaining = v
	}
	if v, ok := headerInt(headers, HeaderReset); ok {
		g.reset = time.Unix(int64(v), 0)
	}
}

// MarkExhausted records a forced-exhaustion signal (a 429), zeroing the
// remaining quota regardless of header presence. When the response carried
// no usable reset header the governor estimates one period from now.
func (g *Governor) MarkExhausted(headers http.Header) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.remaining = 0
	if v, ok := headerInt(headers, HeaderReset); ok {
		g.reset = time.Unix(int64(v), 0)
		return
	}
	if g.reset.Before(g.now()) {
		g.reset = g.now().Add(time.Minute)
	}
}

// Snapshot is a point-in-time copy of the governor state.
type Snapshot struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// State returns the current quota state.
func (g *Governor) State() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{Limit: g.limit, Remaining: g.remaining, Reset: g.reset}
}

func headerInt(headers http.Header, name string) (int, bool) {
	raw := headers.Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
