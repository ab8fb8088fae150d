package wanikani

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// ══════════════════════════════════════════════════════════════════════════════
// VOICE ACTORS
// ══════════════════════════════════════════════════════════════════════════════

// VoiceActorFilter narrows the voice actors collection.
type VoiceActorFilter struct {
	IDs []int64

	UpdatedAfter *time.Time

	PageAfterID  *int64
	PageBeforeID *int64
}

func (f *VoiceActorFilter) values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	setInt64s(v, "ids", f.IDs)
	setTime(v, "updated_after", f.UpdatedAfter)
	setCursor(v, f.PageAfterID, f.PageBeforeID)
	return v
}

// ListVoiceActors returns an iterator over the available voice actors.
func (c *Client) ListVoiceActors(filter *VoiceActorFilter) *PageIterator {
	return c.newIterator(c.collectionURL("/voice_actors", filter.values()))
}

// GetVoiceActor fetches a single voice actor by id.
func (c *Client) GetVoiceActor(ctx context.Context, id int64) (*resource.Resource, error) {
	return c.getResource(ctx, fmt.Sprintf("/voice_actors/%d", id))
}

// ══════════════════════════════════════════════════════════════════════════════
// SPACED REPETITION SYSTEMS
// ══════════════════════════════════════════════════════════════════════════════

// SpacedRepetitionSystemFilter narrows the spaced repetition systems
// collection.
type SpacedRepetitionSystemFilter struct {
	IDs []int64

	UpdatedAfter *time.Time

	PageAfterID  *int64
	PageBeforeID *int64
}

func (f *SpacedRepetitionSystemFilter) values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	setInt64s(v, "ids", f.IDs)
	setTime(v, "updated_after", f.UpdatedAfter)
	setCursor(v, f.PageAfterID, f.PageBeforeID)
	return v
}

// ListSpacedRepetitionSystems returns an iterator over the stage tables the
// API schedules with. Feed a fetched system into srs.FromResource to run the
// same arithmetic locally.
func (c *Client) ListSpacedRepetitionSystems(filter *SpacedRepetitionSystemFilter) *PageIterator {
	return c.newIterator(c.collectionURL("/spaced_repetition_systems", filter.values()))
}

// GetSpacedRepetitionSystem fetches a single spaced repetition system by id.
func (c *Client) GetSpacedRepetitionSystem(ctx context.Context, id int64) (*resource.Resource, error) {
	return c.getResource(ctx, fmt.Sprintf("/spaced_repetition_systems/%d", id))
}
