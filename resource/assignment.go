package resource

import "time"

// Assignment tracks a user's progress on a single subject: the current SRS
// stage and timestamps for each progress milestone. Assignments are created
// when the subject's prerequisites are satisfied and it is at or below the
// user's level for the first time.
type Assignment struct {
	// AvailableAt is when the subject next appears in the review queue. Null
	// at stage 0 (not yet started) and after burning.
	AvailableAt *time.Time `json:"available_at"`

	// BurnedAt is when the assignment first reached the burning stage.
	BurnedAt *time.Time `json:"burned_at"`

	CreatedAt time.Time `json:"created_at"`

	// Hidden marks assignments whose subject has been hidden, keeping them
	// out of lessons and reviews.
	Hidden bool `json:"hidden"`

	// PassedAt is when the assignment first reached the passing stage.
	PassedAt *time.Time `json:"passed_at"`

	// ResurrectedAt is when a burned assignment was placed back in reviews.
	ResurrectedAt *time.Time `json:"resurrected_at"`

	// SRSStage is the current stage position within the subject's spaced
	// repetition system.
	SRSStage int `json:"srs_stage"`

	// StartedAt is when the user completed the lesson for the subject.
	StartedAt *time.Time `json:"started_at"`

	SubjectID   int64       `json:"subject_id"`
	SubjectType SubjectType `json:"subject_type"`

	// UnlockedAt is when the subject's prerequisites were satisfied and it
	// became available in lessons.
	UnlockedAt *time.Time `json:"unlocked_at"`
}

// AssignmentStart is the body for starting an assignment, moving it from the
// lessons queue to the review queue.
type AssignmentStart struct {
	// StartedAt defaults server-side to the request time. Must be at or after
	// the assignment's unlocked_at.
	StartedAt *time.Time `json:"started_at,omitempty"`
}
