package resource

import "time"

// SRSStage is one position in a spaced repetition system's stage sequence.
type SRSStage struct {
	// Interval until the next review, null for the unlocking and burning
	// stages which have no scheduled review.
	Interval *int64 `json:"interval"`

	// IntervalUnit is the unit of Interval, e.g. "seconds" or "milliseconds".
	IntervalUnit *string `json:"interval_unit"`

	// Position of the stage within the sequence, 0-based.
	Position int `json:"position"`
}

// SpacedRepetitionSystem defines the ordered stage table governing how
// subjects move from locked through burned. Positions partition into
// unlocking (0), starting (first reviewable), passing (counts toward level
// progression) and burning (terminal).
type SpacedRepetitionSystem struct {
	BurningStagePosition   int `json:"burning_stage_position"`
	PassingStagePosition   int `json:"passing_stage_position"`
	StartingStagePosition  int `json:"starting_stage_position"`
	UnlockingStagePosition int `json:"unlocking_stage_position"`

	CreatedAt   time.Time `json:"created_at"`
	Description string    `json:"description"`
	Name        string    `json:"name"`

	Stages []SRSStage `json:"stages"`
}
