package resource

import "time"

// StudyMaterial holds user-created notes and meaning synonyms for a subject.
type StudyMaterial struct {
	CreatedAt time.Time `json:"created_at"`

	Hidden bool `json:"hidden"`

	MeaningNote     *string  `json:"meaning_note"`
	MeaningSynonyms []string `json:"meaning_synonyms"`
	ReadingNote     *string  `json:"reading_note"`

	SubjectID   int64       `json:"subject_id"`
	SubjectType SubjectType `json:"subject_type"`
}

// StudyMaterialCreate is the body for creating a study material.
type StudyMaterialCreate struct {
	SubjectID int64 `json:"subject_id"`

	MeaningNote     *string  `json:"meaning_note,omitempty"`
	MeaningSynonyms []string `json:"meaning_synonyms,omitempty"`
	ReadingNote     *string  `json:"reading_note,omitempty"`
}

// StudyMaterialUpdate is the body for updating a study material. Nil fields
// are left unchanged.
type StudyMaterialUpdate struct {
	MeaningNote     *string  `json:"meaning_note,omitempty"`
	MeaningSynonyms []string `json:"meaning_synonyms,omitempty"`
	ReadingNote     *string  `json:"reading_note,omitempty"`
}
