// Package cache implements the conditional-request cache for the WaniKani
// API.
//
// The API accepts If-None-Match and If-Modified-Since on every endpoint and
// answers with 304 Not Modified and an empty body when nothing changed. The
// cache stores the last-seen validators (ETag, Last-Modified) and response
// body per request identity, supplies the validators for outgoing requests,
// and reconstructs the envelope when the server short-circuits with a 304.
//
// This is a per-endpoint validator store, not a data store: entries exist
// only to pair a future 304 with its baseline response.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrMiss is returned when a 304 arrives with no stored baseline. That
	// is a protocol violation by the caller or the server and is never
	// silently treated as success.
	ErrMiss = errors.New("cache: 304 received with no stored baseline")

	// ErrStore is wrapped around backend failures (connection loss,
	// serialization) of a pluggable store.
	ErrStore = errors.New("cache: store failure")
)

// ══════════════════════════════════════════════════════════════════════════════
// KEYS AND ENTRIES
// ══════════════════════════════════════════════════════════════════════════════

// Key identifies a cached response: one entry per distinct method, URL and
// API revision. Including the revision keeps a revision bump from pairing a
// 304 with an envelope decoded under the previous revision.
type Key struct {
	Method   string
	URL      string
	Revision string
}

// String renders the key for use in backend key spaces.
func (k Key) String() string {
	return k.Method + " " + k.URL + " " + k.Revision
}

// Entry is a stored validator record: the validators from the last 200
// response plus the raw body needed to reconstruct the envelope on a 304.
type Entry struct {
	ETag          string     `json:"etag,omitempty"`
	LastModified  string     `json:"last_modified,omitempty"`
	Body          []byte     `json:"body"`
	DataUpdatedAt *time.Time `json:"data_updated_at,omitempty"`
	StoredAt      time.Time  `json:"stored_at"`
}

// Store is the pluggable entry backend. Implementations must be safe for
// concurrent use; racing writers for the same key resolve to last writer
// wins.
type Store interface {
	// Load returns the entry for the key, or ok=false when absent.
	Load(ctx context.Context, key Key) (entry *Entry, ok bool, err error)

	// Save stores or replaces the entry for the key.
	Save(ctx context.Context, key Key, entry *Entry) error
}

// ══════════════════════════════════════════════════════════════════════════════
// MEMORY STORE
// ══════════════════════════════════════════════════════════════════════════════

// Memory is the default in-process store: a mutex-guarded map, no eviction,
// lifetime bound to the client.
type Memory struct {
	mu      sync.RWMutex
	entries map[Key]*Entry
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[Key]*Entry)}
}

// Load implements Store.
func (m *Memory) Load(_ context.Context, key Key) (*Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	return entry, ok, nil
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, key Key, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ══════════════════════════════════════════════════════════════════════════════
// CONDITIONAL LAYER
// ══════════════════════════════════════════════════════════════════════════════

// Validators are the request headers derived from a stored entry. When the
// server eventually supplies both, If-None-Match takes precedence
// server-side; the client sends whichever it has.
type Validators struct {
	ETag         string // goes out as If-None-Match
	LastModified string // goes out as If-Modified-Since
}

// Conditional applies the conditional-request protocol on top of a Store.
type Conditional struct {
	store Store
}

// NewConditional wraps a store; nil selects a fresh Memory store.
func NewConditional(store Store) *Conditional {
	if store == nil {
		store = NewMemory()
	}
	return &Conditional{store: store}
}

// Prepare returns the stored validators for a request, empty when no entry
// exists yet.
func (c *Conditional) Prepare(ctx context.Context, key Key) (Validators, error) {
	entry, ok, err := c.store.Load(ctx, key)
	if err != nil || !ok {
		return Validators{}, err
	}
	return Validators{ETag: entry.ETag, LastModified: entry.LastModified}, nil
}

// ObserveSuccess records a 200 response: new validators and body replace the
// stored entry. A response whose data_updated_at is older than the stored
// one is refused; the envelope timestamp is monotonically non-decreasing for
// a logical resource, so an older body means this writer lost a race and the
// newer entry stays authoritative.
func (c *Conditional) ObserveSuccess(ctx context.Context, key Key, v Validators, updatedAt *time.Time, body []byte) error {
	existing, ok, err := c.store.Load(ctx, key)
	if err != nil {
		return err
	}
	if ok && existing.DataUpdatedAt != nil && updatedAt != nil && updatedAt.Before(*existing.DataUpdatedAt) {
		return nil
	}

	stored := make([]byte, len(body))
	copy(stored, body)

	return c.store.Save(ctx, key, &Entry{
		ETag:          v.ETag,
		LastModified:  v.LastModified,
		Body:          stored,
		DataUpdatedAt: updatedAt,
		StoredAt:      time.Now(),
	})
}

// NotModified resolves a 304 response to the previously stored envelope,
// decoded verbatim from the stored body. The entry is consulted, never
// mutated. ErrMiss reports a 304 with no baseline.
func (c *Conditional) NotModified(ctx context.Context, key Key) (resource.Envelope, error) {
	entry, ok, err := c.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMiss
	}
	return resource.Decode(entry.Body)
}
