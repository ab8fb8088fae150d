package wanikani

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// ══════════════════════════════════════════════════════════════════════════════
// FILTER ENCODING
// ══════════════════════════════════════════════════════════════════════════════

// Array parameters are comma-delimited single values, not repeated keys:
// ids=1,2,3. Timestamps go out as RFC 3339.

func setInt64s(v url.Values, key string, ids []int64) {
	if len(ids) == 0 {
		return
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	v.Set(key, strings.Join(parts, ","))
}

func setInts(v url.Values, key string, ns []int) {
	if len(ns) == 0 {
		return
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	v.Set(key, strings.Join(parts, ","))
}

func setStrings(v url.Values, key string, ss []string) {
	if len(ss) == 0 {
		return
	}
	v.Set(key, strings.Join(ss, ","))
}

func setBool(v url.Values, key string, b *bool) {
	if b == nil {
		return
	}
	v.Set(key, strconv.FormatBool(*b))
}

func setInt64(v url.Values, key string, n *int64) {
	if n == nil {
		return
	}
	v.Set(key, strconv.FormatInt(*n, 10))
}

func setInt(v url.Values, key string, n *int) {
	if n == nil {
		return
	}
	v.Set(key, strconv.Itoa(*n))
}

func setTime(v url.Values, key string, t *time.Time) {
	if t == nil {
		return
	}
	v.Set(key, t.Format(time.RFC3339Nano))
}

func setSubjectTypes(v url.Values, key string, types []resource.SubjectType) {
	if len(types) == 0 {
		return
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	v.Set(key, strings.Join(parts, ","))
}

// setFlag encodes a presence-only parameter, which the API reads by key
// existence rather than value.
func setFlag(v url.Values, key string, on bool) {
	if !on {
		return
	}
	v.Set(key, "true")
}

// setCursor encodes the pagination cursor shared by every collection. The
// two cursors are mutually exclusive per request; when both are set the
// forward cursor wins and the backward one is dropped.
func setCursor(v url.Values, afterID, beforeID *int64) {
	if afterID != nil {
		setInt64(v, "page_after_id", afterID)
		return
	}
	setInt64(v, "page_before_id", beforeID)
}
