package wanikani

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// ══════════════════════════════════════════════════════════════════════════════
// REVIEWS
// ══════════════════════════════════════════════════════════════════════════════

// ReviewFilter narrows the reviews collection.
type ReviewFilter struct {
	IDs           []int64
	AssignmentIDs []int64
	SubjectIDs    []int64

	UpdatedAfter *time.Time

	PageAfterID  *int64
	PageBeforeID *int64
}

func (f *ReviewFilter) values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	setInt64s(v, "ids", f.IDs)
	setInt64s(v, "assignment_ids", f.AssignmentIDs)
	setInt64s(v, "subject_ids", f.SubjectIDs)
	setTime(v, "updated_after", f.UpdatedAfter)
	setCursor(v, f.PageAfterID, f.PageBeforeID)
	return v
}

// ListReviews returns an iterator over the reviews matching the filter.
func (c *Client) ListReviews(filter *ReviewFilter) *PageIterator {
	return c.newIterator(c.collectionURL("/reviews", filter.values()))
}

// GetReview fetches a single review by id.
func (c *Client) GetReview(ctx context.Context, id int64) (*resource.Resource, error) {
	return c.getResource(ctx, fmt.Sprintf("/reviews/%d", id))
}

// CreateReview submits a review for an assignment. The server advances the
// assignment's SRS stage and updates its review statistic as a side effect.
// Reviewing an unstarted assignment fails with a ValidationError.
func (c *Client) CreateReview(ctx context.Context, body *resource.ReviewCreate) (*resource.Resource, error) {
	wrapped := struct {
		Review *resource.ReviewCreate `json:"review"`
	}{Review: body}
	return c.send(ctx, http.MethodPost, "/reviews", wrapped)
}

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

// ReviewStatisticFilter narrows the review statistics collection.
type ReviewStatisticFilter struct {
	IDs          []int64
	SubjectIDs   []int64
	SubjectTypes []resource.SubjectType

	// PercentagesGreaterThan and PercentagesLessThan bound the
	// percentage_correct field exclusively.
	PercentagesGreaterThan *int
	PercentagesLessThan    *int

	Hidden *bool

	UpdatedAfter *time.Time

	PageAfterID  *int64
	PageBeforeID *int64
}

func (f *ReviewStatisticFilter) values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	setInt64s(v, "ids", f.IDs)
	setInt64s(v, "subject_ids", f.SubjectIDs)
	setSubjectTypes(v, "subject_types", f.SubjectTypes)
	setInt(v, "percentages_greater_than", f.PercentagesGreaterThan)
	setInt(v, "percentages_less_than", f.PercentagesLessThan)
	setBool(v, "hidden", f.Hidden)
	setTime(v, "updated_after", f.UpdatedAfter)
	setCursor(v, f.PageAfterID, f.PageBeforeID)
	return v
}

// ListReviewStatistics returns an iterator over the review statistics
// matching the filter.
func (c *Client) ListReviewStatistics(filter *ReviewStatisticFilter) *PageIterator {
	return c.newIterator(c.collectionURL("/review_statistics", filter.values()))
}

// GetReviewStatistic fetches a single review statistic by id.
func (c *Client) GetReviewStatistic(ctx context.Context, id int64) (*resource.Resource, error) {
	return c.getResource(ctx, fmt.Sprintf("/review_statistics/%d", id))
}
