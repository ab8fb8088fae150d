package resource

import "time"

// Reset records a user-initiated rollback of progress to a target level at or
// below their level at the time. Resets are immutable once recorded.
type Reset struct {
	// ConfirmedAt is when the user confirmed the reset; unconfirmed resets
	// never take effect.
	ConfirmedAt *time.Time `json:"confirmed_at"`

	CreatedAt time.Time `json:"created_at"`

	// OriginalLevel is the user's level before the reset.
	OriginalLevel int `json:"original_level"`

	// TargetLevel is the level after the reset, at most OriginalLevel.
	TargetLevel int `json:"target_level"`
}
