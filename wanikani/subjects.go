package wanikani

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// SubjectFilter narrows the subjects collection.
type SubjectFilter struct {
	IDs    []int64
	Types  []resource.SubjectType
	Slugs  []string
	Levels []int
	Hidden *bool

	UpdatedAfter *time.Time

	PageAfterID  *int64
	PageBeforeID *int64
}

func (f *SubjectFilter) values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	setInt64s(v, "ids", f.IDs)
	setSubjectTypes(v, "types", f.Types)
	setStrings(v, "slugs", f.Slugs)
	setInts(v, "levels", f.Levels)
	setBool(v, "hidden", f.Hidden)
	setTime(v, "updated_after", f.UpdatedAfter)
	setCursor(v, f.PageAfterID, f.PageBeforeID)
	return v
}

// ListSubjects returns an iterator over the subjects matching the filter,
// ascending by id. Subjects page at up to 1000 per page, unlike the usual
// 500.
func (c *Client) ListSubjects(filter *SubjectFilter) *PageIterator {
	return c.newIterator(c.collectionURL("/subjects", filter.values()))
}

// GetSubject fetches a single subject by id. The resource's data is one of
// *resource.Radical, *resource.Kanji, *resource.Vocabulary or
// *resource.KanaVocabulary, selected by the object discriminator.
func (c *Client) GetSubject(ctx context.Context, id int64) (*resource.Resource, error) {
	return c.getResource(ctx, fmt.Sprintf("/subjects/%d", id))
}
