package resource

import "time"

// LevelProgression tracks a user's path through one level: when it unlocked,
// started, passed, completed, or was abandoned by a reset.
type LevelProgression struct {
	// AbandonedAt is set when the user reset out of this level.
	AbandonedAt *time.Time `json:"abandoned_at"`

	// CompletedAt is when all the level's assignments were burned.
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`

	Level int `json:"level"`

	// PassedAt is when enough of the level's kanji passed to unlock the next
	// level.
	PassedAt *time.Time `json:"passed_at"`

	// StartedAt is when the user first started a lesson at this level.
	StartedAt *time.Time `json:"started_at"`

	// UnlockedAt is when the level became available.
	UnlockedAt *time.Time `json:"unlocked_at"`
}
