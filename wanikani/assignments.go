package wanikani

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// AssignmentFilter narrows the assignments collection. Zero values and nil
// pointers are omitted from the query.
type AssignmentFilter struct {
	IDs          []int64
	SubjectIDs   []int64
	SubjectTypes []resource.SubjectType
	Levels       []int
	SRSStages    []int

	AvailableAfter  *time.Time
	AvailableBefore *time.Time

	Burned   *bool
	Hidden   *bool
	Started  *bool
	Unlocked *bool

	// ImmediatelyAvailableForLessons selects assignments in the lessons
	// queue right now; the server resolves it to srs_stages=0&unlocked=true.
	ImmediatelyAvailableForLessons bool

	// ImmediatelyAvailableForReview selects assignments whose available_at
	// is in the past.
	ImmediatelyAvailableForReview bool

	// InReview selects assignments past the lessons queue.
	InReview bool

	UpdatedAfter *time.Time

	PageAfterID  *int64
	PageBeforeID *int64
}

func (f *AssignmentFilter) values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	setInt64s(v, "ids", f.IDs)
	setInt64s(v, "subject_ids", f.SubjectIDs)
	setSubjectTypes(v, "subject_types", f.SubjectTypes)
	setInts(v, "levels", f.Levels)
	setInts(v, "srs_stages", f.SRSStages)
	setTime(v, "available_after", f.AvailableAfter)
	setTime(v, "available_before", f.AvailableBefore)
	setBool(v, "burned", f.Burned)
	setBool(v, "hidden", f.Hidden)
	setBool(v, "started", f.Started)
	setBool(v, "unlocked", f.Unlocked)
	setFlag(v, "immediately_available_for_lessons", f.ImmediatelyAvailableForLessons)
	setFlag(v, "immediately_available_for_review", f.ImmediatelyAvailableForReview)
	setFlag(v, "in_review", f.InReview)
	setTime(v, "updated_after", f.UpdatedAfter)
	setCursor(v, f.PageAfterID, f.PageBeforeID)
	return v
}

// ListAssignments returns an iterator over the assignments matching the
// filter, ascending by id. A nil filter selects everything.
func (c *Client) ListAssignments(filter *AssignmentFilter) *PageIterator {
	return c.newIterator(c.collectionURL("/assignments", filter.values()))
}

// GetAssignment fetches a single assignment by id.
func (c *Client) GetAssignment(ctx context.Context, id int64) (*resource.Resource, error) {
	return c.getResource(ctx, fmt.Sprintf("/assignments/%d", id))
}

// StartAssignment moves an assignment from the lessons queue into the review
// queue. A nil body lets the server default started_at to now.
func (c *Client) StartAssignment(ctx context.Context, id int64, body *resource.AssignmentStart) (*resource.Resource, error) {
	if body == nil {
		body = &resource.AssignmentStart{}
	}
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/assignments/%d/start", id), body)
}
