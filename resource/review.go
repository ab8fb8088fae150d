package resource

import "time"

// Review records the outcome of a single review session for one assignment:
// the stage it started at, the stage it ended at, and how many times each
// answer type was wrong before being answered correctly. Reviews are
// immutable once recorded.
type Review struct {
	AssignmentID int64     `json:"assignment_id"`
	CreatedAt    time.Time `json:"created_at"`

	// EndingSRSStage is the stage after applying this review's outcome.
	EndingSRSStage int `json:"ending_srs_stage"`

	IncorrectMeaningAnswers int `json:"incorrect_meaning_answers"`
	IncorrectReadingAnswers int `json:"incorrect_reading_answers"`

	SpacedRepetitionSystemID int64 `json:"spaced_repetition_system_id"`

	// StartingSRSStage is the stage the assignment held when the review was
	// submitted; at least the starting stage of the system.
	StartingSRSStage int `json:"starting_srs_stage"`

	SubjectID int64 `json:"subject_id"`
}

// TotalIncorrect is the combined number of wrong answers in the session.
func (r *Review) TotalIncorrect() int {
	return r.IncorrectMeaningAnswers + r.IncorrectReadingAnswers
}

// ReviewCreate is the body for submitting a review. Exactly one of
// AssignmentID or SubjectID identifies the assignment.
type ReviewCreate struct {
	AssignmentID *int64 `json:"assignment_id,omitempty"`
	SubjectID    *int64 `json:"subject_id,omitempty"`

	IncorrectMeaningAnswers int `json:"incorrect_meaning_answers"`
	IncorrectReadingAnswers int `json:"incorrect_reading_answers"`

	// CreatedAt defaults server-side to the request time.
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
