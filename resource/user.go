package resource

import (
	"time"

	"github.com/google/uuid"
)

// User is the singleton report describing the account that owns the API
// token. Unlike singular resources it carries no numeric id; the account is
// identified by a UUID inside the data payload.
type User struct {
	Common
	Data UserData `json:"data"`
}

// UserData is the user report body.
type UserData struct {
	ID uuid.UUID `json:"id"`

	// CurrentVacationStartedAt is set while the account is on vacation mode,
	// which pauses review scheduling.
	CurrentVacationStartedAt *time.Time `json:"current_vacation_started_at"`

	Level int `json:"level"`

	Preferences Preferences `json:"preferences"`

	ProfileURL string `json:"profile_url"`

	// StartedAt is when the account signed up.
	StartedAt time.Time `json:"started_at"`

	Subscription Subscription `json:"subscription"`

	Username string `json:"username"`
}

// LessonPresentationOrder values.
const (
	OrderAscendingLevelThenSubject  = "ascending_level_then_subject"
	OrderAscendingLevelThenShuffled = "ascending_level_then_shuffled"
	OrderShuffled                   = "shuffled"
)

// Preferences holds the account's lesson and review settings.
type Preferences struct {
	DefaultVoiceActorID        int64  `json:"default_voice_actor_id"`
	ExtraStudyAutoplayAudio    bool   `json:"extra_study_autoplay_audio"`
	LessonsAutoplayAudio       bool   `json:"lessons_autoplay_audio"`
	LessonsBatchSize           int    `json:"lessons_batch_size"`
	LessonsPresentationOrder   string `json:"lessons_presentation_order"`
	ReviewsAutoplayAudio       bool   `json:"reviews_autoplay_audio"`
	ReviewsDisplaySRSIndicator bool   `json:"reviews_display_srs_indicator"`
}

// Subscription types.
const (
	SubscriptionFree      = "free"
	SubscriptionRecurring = "recurring"
	SubscriptionLifetime  = "lifetime"
	SubscriptionUnknown   = "unknown"
)

// Subscription describes the account's access to content. MaxLevelGranted
// caps the subject levels the account may study; lessons and reviews above it
// are rejected server-side.
type Subscription struct {
	Active          bool       `json:"active"`
	MaxLevelGranted int        `json:"max_level_granted"`
	PeriodEndsAt    *time.Time `json:"period_ends_at"`
	Type            string     `json:"type"`
}

// UserUpdate is the body for updating the user's preferences. Nil fields are
// left unchanged.
type UserUpdate struct {
	Preferences PreferencesUpdate `json:"preferences"`
}

// PreferencesUpdate mirrors Preferences with all fields optional.
type PreferencesUpdate struct {
	DefaultVoiceActorID        *int64  `json:"default_voice_actor_id,omitempty"`
	ExtraStudyAutoplayAudio    *bool   `json:"extra_study_autoplay_audio,omitempty"`
	LessonsAutoplayAudio       *bool   `json:"lessons_autoplay_audio,omitempty"`
	LessonsBatchSize           *int    `json:"lessons_batch_size,omitempty"`
	LessonsPresentationOrder   *string `json:"lessons_presentation_order,omitempty"`
	ReviewsAutoplayAudio       *bool   `json:"reviews_autoplay_audio,omitempty"`
	ReviewsDisplaySRSIndicator *bool   `json:"reviews_display_srs_indicator,omitempty"`
}
