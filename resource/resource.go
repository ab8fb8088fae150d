// Package resource defines the typed object model for the WaniKani v2 API.
//
// Every successful API response is one of three envelope shapes, discriminated
// by the top-level "object" attribute: a singular resource (with a numeric
// id), a paginated collection, or a report (summary, user). Decode inspects
// the discriminator and produces the matching envelope with its data payload
// decoded into the correct variant type.
//
// Decoded values are immutable value objects. Cross-resource relationships
// (assignment -> subject, subject -> spaced repetition system) are carried as
// plain identifier fields and resolved by the caller.
package resource

import (
	"encoding/json"
	"fmt"
	"time"
)

// ObjectType is the value of the "object" discriminator on every response.
type ObjectType string

// Known object types.
const (
	ObjectAssignment             ObjectType = "assignment"
	ObjectCollection             ObjectType = "collection"
	ObjectKanaVocabulary         ObjectType = "kana_vocabulary"
	ObjectKanji                  ObjectType = "kanji"
	ObjectLevelProgression       ObjectType = "level_progression"
	ObjectRadical                ObjectType = "radical"
	ObjectReport                 ObjectType = "report"
	ObjectReset                  ObjectType = "reset"
	ObjectReview                 ObjectType = "review"
	ObjectReviewStatistic        ObjectType = "review_statistic"
	ObjectSpacedRepetitionSystem ObjectType = "spaced_repetition_system"
	ObjectStudyMaterial          ObjectType = "study_material"
	ObjectUser                   ObjectType = "user"
	ObjectVocabulary             ObjectType = "vocabulary"
	ObjectVoiceActor             ObjectType = "voice_actor"
)

// IsSubject reports whether the object type is one of the subject kinds.
func (o ObjectType) IsSubject() bool {
	switch o {
	case ObjectRadical, ObjectKanji, ObjectVocabulary, ObjectKanaVocabulary:
		return true
	}
	return false
}

// String returns the wire form of the object type.
func (o ObjectType) String() string { return string(o) }

// DecodeError indicates a payload that could not be decoded into the object
// model: an unrecognized discriminator, malformed JSON, or a missing required
// field. It signals an API revision mismatch and is never retried.
type DecodeError struct {
	Object  ObjectType // discriminator, if one was found
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resource: decode %q: %s: %v", e.Object, e.Message, e.Err)
	}
	return fmt.Sprintf("resource: decode %q: %s", e.Object, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *DecodeError) Unwrap() error { return e.Err }

// Common holds the attributes shared by all envelope shapes.
type Common struct {
	// Object is the discriminator for this envelope.
	Object ObjectType `json:"object"`

	// URL is the request URL. Collections keep their filters and options in
	// the query string; singular resources have a canonical URL.
	URL string `json:"url"`

	// DataUpdatedAt is the last update time of the resource. For collections
	// it is the most recently updated resource in scope, not limited by
	// pagination, and may be null when the scope is empty.
	//
	// The value is monotonically non-decreasing across fetches of the same
	// logical resource; the conditional cache relies on that to never replace
	// a newer envelope with an older one.
	DataUpdatedAt *time.Time `json:"data_updated_at"`
}

// CommonData returns the shared envelope attributes.
func (c Common) CommonData() Common { return c }

// Envelope is implemented by all three top-level response shapes.
type Envelope interface {
	CommonData() Common
}

// Pages carries the cursor links of a collection. Cursors are resource ids:
// next_url embeds page_after_id, previous_url embeds page_before_id. A cursor
// outside the collection's id range yields an empty page, not an error.
type Pages struct {
	NextURL     *string `json:"next_url"`
	PreviousURL *string `json:"previous_url"`
	PerPage     int     `json:"per_page"`
}

// Resource is a singular resource envelope. Data holds a pointer to the
// variant type selected by Object: *Assignment, *Kanji, *Reset, and so on.
type Resource struct {
	ID int64 `json:"id"`
	Common
	Data any `json:"data"`
}

// Collection is a paginated envelope whose data is an ordered sequence of
// singular resources, ascending by id.
type Collection struct {
	Common
	Pages      Pages      `json:"pages"`
	TotalCount int64      `json:"total_count"`
	Data       []Resource `json:"data"`
}

// Decode decodes a raw response body into the envelope matching its "object"
// discriminator. The returned value is one of *Resource, *Collection,
// *Summary or *User. Failures are reported as *DecodeError.
func Decode(raw []byte) (Envelope, error) {
	var probe struct {
		Object ObjectType `json:"object"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &DecodeError{Message: "malformed envelope", Err: err}
	}

	switch probe.Object {
	case "":
		return nil, &DecodeError{Message: "missing object discriminator"}
	case ObjectCollection:
		var c Collection
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, wrapDecodeErr(ObjectCollection, err)
		}
		return &c, nil
	case ObjectReport:
		var s Summary
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, wrapDecodeErr(ObjectReport, err)
		}
		return &s, nil
	case ObjectUser:
		var u User
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, wrapDecodeErr(ObjectUser, err)
		}
		return &u, nil
	default:
		var r Resource
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, wrapDecodeErr(probe.Object, err)
		}
		return &r, nil
	}
}

func wrapDecodeErr(object ObjectType, err error) error {
	var de *DecodeError
	if ok := asDecodeError(err, &de); ok {
		return de
	}
	return &DecodeError{Object: object, Message: "malformed payload", Err: err}
}

// asDecodeError unwraps json.Unmarshal errors that originated from a nested
// UnmarshalJSON returning a *DecodeError, so the original diagnosis survives.
func asDecodeError(err error, target **DecodeError) bool {
	for err != nil {
		if de, ok := err.(*DecodeError); ok {
			*target = de
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// UnmarshalJSON decodes a singular resource, dispatching data into the
// variant type named by the object discriminator.
func (r *Resource) UnmarshalJSON(raw []byte) error {
	var aux struct {
		ID int64 `json:"id"`
		Common
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return &DecodeError{Message: "malformed resource", Err: err}
	}
	if aux.URL == "" {
		return &DecodeError{Object: aux.Object, Message: "missing url"}
	}

	data, err := decodeData(aux.Object, aux.Data)
	if err != nil {
		return err
	}

	r.ID = aux.ID
	r.Common = aux.Common
	r.Data = data
	return nil
}

// decodeData is the exhaustive variant dispatch. Adding a resource type means
// adding exactly one case here; call sites that only touch Common are
// unaffected.
func decodeData(object ObjectType, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, &DecodeError{Object: object, Message: "missing data"}
	}

	var data any
	switch object {
	case ObjectAssignment:
		data = new(Assignment)
	case ObjectKanaVocabulary:
		data = new(KanaVocabulary)
	case ObjectKanji:
		data = new(Kanji)
	case ObjectLevelProgression:
		data = new(LevelProgression)
	case ObjectRadical:
		data = new(Radical)
	case ObjectReset:
		data = new(Reset)
	case ObjectReview:
		data = new(Review)
	case ObjectReviewStatistic:
		data = new(ReviewStatistic)
	case ObjectSpacedRepetitionSystem:
		data = new(SpacedRepetitionSystem)
	case ObjectStudyMaterial:
		data = new(StudyMaterial)
	case ObjectVocabulary:
		data = new(Vocabulary)
	case ObjectVoiceActor:
		data = new(VoiceActor)
	default:
		return nil, &DecodeError{Object: object, Message: "unknown object type"}
	}

	if err := json.Unmarshal(raw, data); err != nil {
		return nil, &DecodeError{Object: object, Message: "malformed data", Err: err}
	}
	return data, nil
}

// Assignment returns the data payload as an assignment.
func (r *Resource) Assignment() (*Assignment, bool) {
	a, ok := r.Data.(*Assignment)
	return a, ok
}

// Subject returns the data payload as a subject of any kind.
func (r *Resource) Subject() (Subject, bool) {
	s, ok := r.Data.(Subject)
	return s, ok
}

// Review returns the data payload as a review.
func (r *Resource) Review() (*Review, bool) {
	v, ok := r.Data.(*Review)
	return v, ok
}

// Reset returns the data payload as a reset.
func (r *Resource) Reset() (*Reset, bool) {
	v, ok := r.Data.(*Reset)
	return v, ok
}

// LevelProgression returns the data payload as a level progression.
func (r *Resource) LevelProgression() (*LevelProgression, bool) {
	v, ok := r.Data.(*LevelProgression)
	return v, ok
}

// ReviewStatistic returns the data payload as a review statistic.
func (r *Resource) ReviewStatistic() (*ReviewStatistic, bool) {
	v, ok := r.Data.(*ReviewStatistic)
	return v, ok
}

// StudyMaterial returns the data payload as a study material.
func (r *Resource) StudyMaterial() (*StudyMaterial, bool) {
	v, ok := r.Data.(*StudyMaterial)
	return v, ok
}

// SpacedRepetitionSystem returns the data payload as an SRS definition.
func (r *Resource) SpacedRepetitionSystem() (*SpacedRepetitionSystem, bool) {
	v, ok := r.Data.(*SpacedRepetitionSystem)
	return v, ok
}

// VoiceActor returns the data payload as a voice actor.
func (r *Resource) VoiceActor() (*VoiceActor, bool) {
	v, ok := r.Data.(*VoiceActor)
	return v, ok
}
