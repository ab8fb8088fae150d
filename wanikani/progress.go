package wanikani

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEVEL PROGRESSIONS
// ══════════════════════════════════════════════════════════════════════════════

// LevelProgressionFilter narrows the level progressions collection.
type LevelProgressionFilter struct {
	IDs []int64

	UpdatedAfter *time.Time

	PageAfterID  *int64
	PageBeforeID *int64
}

func (f *LevelProgressionFilter) values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	setInt64s(v, "ids", f.IDs)
	setTime(v, "updated_after", f.UpdatedAfter)
	setCursor(v, f.PageAfterID, f.PageBeforeID)
	return v
}

// ListLevelProgressions returns an iterator over the user's level
// progressions, one record per level attempt. A level reset opens a fresh
// progression; the abandoned one keeps its abandoned_at marker.
func (c *Client) ListLevelProgressions(filter *LevelProgressionFilter) *PageIterator {
	return c.newIterator(c.collectionURL("/level_progressions", filter.values()))
}

// GetLevelProgression fetches a single level progression by id.
func (c *Client) GetLevelProgression(ctx context.Context, id int64) (*resource.Resource, error) {
	return c.getResource(ctx, fmt.Sprintf("/level_progressions/%d", id))
}

// ══════════════════════════════════════════════════════════════════════════════
// RESETS
// ══════════════════════════════════════════════════════════════════════════════

// ResetFilter narrows the resets collection.
type ResetFilter struct {
	IDs []int64

	UpdatedAfter *time.Time

	PageAfterID  *int64
	PageBeforeID *int64
}

func (f *ResetFilter) values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	setInt64s(v, "ids", f.IDs)
	setTime(v, "updated_after", f.UpdatedAfter)
	setCursor(v, f.PageAfterID, f.PageBeforeID)
	return v
}

// ListResets returns an iterator over the user's level resets.
func (c *Client) ListResets(filter *ResetFilter) *PageIterator {
	return c.newIterator(c.collectionURL("/resets", filter.values()))
}

// GetReset fetches a single reset by id.
func (c *Client) GetReset(ctx context.Context, id int64) (*resource.Resource, error) {
	return c.getResource(ctx, fmt.Sprintf("/resets/%d", id))
}
