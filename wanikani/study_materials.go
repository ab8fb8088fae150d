package wanikani

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// StudyMaterialFilter narrows the study materials collection.
type StudyMaterialFilter struct {
	IDs          []int64
	SubjectIDs   []int64
	SubjectTypes []resource.SubjectType
	Hidden       *bool

	UpdatedAfter *time.Time

	PageAfterID  *int64
	PageBeforeID *int64
}

func (f *StudyMaterialFilter) values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	setInt64s(v, "ids", f.IDs)
	setInt64s(v, "subject_ids", f.SubjectIDs)
	setSubjectTypes(v, "subject_types", f.SubjectTypes)
	setBool(v, "hidden", f.Hidden)
	setTime(v, "updated_after", f.UpdatedAfter)
	setCursor(v, f.PageAfterID, f.PageBeforeID)
	return v
}

// ListStudyMaterials returns an iterator over the study materials matching
// the filter.
func (c *Client) ListStudyMaterials(filter *StudyMaterialFilter) *PageIterator {
	return c.newIterator(c.collectionURL("/study_materials", filter.values()))
}

// GetStudyMaterial fetches a single study material by id.
func (c *Client) GetStudyMaterial(ctx context.Context, id int64) (*resource.Resource, error) {
	return c.getResource(ctx, fmt.Sprintf("/study_materials/%d", id))
}

// CreateStudyMaterial creates a study material for a subject. The server
// allows one per subject; a second create fails with a ValidationError.
func (c *Client) CreateStudyMaterial(ctx context.Context, body *resource.StudyMaterialCreate) (*resource.Resource, error) {
	wrapped := struct {
		StudyMaterial *resource.StudyMaterialCreate `json:"study_material"`
	}{StudyMaterial: body}
	return c.send(ctx, http.MethodPost, "/study_materials", wrapped)
}

// UpdateStudyMaterial updates an existing study material. Nil fields in the
// body are left unchanged.
func (c *Client) UpdateStudyMaterial(ctx context.Context, id int64, body *resource.StudyMaterialUpdate) (*resource.Resource, error) {
	wrapped := struct {
		StudyMaterial *resource.StudyMaterialUpdate `json:"study_material"`
	}{StudyMaterial: body}
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/study_materials/%d", id), wrapped)
}
