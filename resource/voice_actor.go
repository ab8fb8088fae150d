package resource

import "time"

// VoiceActor describes one of the speakers recording vocabulary
// pronunciation audio.
type VoiceActor struct {
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Gender      string    `json:"gender"`
	Description string    `json:"description"`
}
