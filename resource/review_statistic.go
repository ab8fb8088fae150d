package resource

import "time"

// ReviewStatistic aggregates correct/incorrect counts and streaks for one
// subject across all of its reviews. A reset reverts the statistic for
// affected levels back to zeroes.
type ReviewStatistic struct {
	CreatedAt time.Time `json:"created_at"`

	Hidden bool `json:"hidden"`

	MeaningCorrect       int `json:"meaning_correct"`
	MeaningCurrentStreak int `json:"meaning_current_streak"`
	MeaningIncorrect     int `json:"meaning_incorrect"`
	MeaningMaxStreak     int `json:"meaning_max_streak"`

	// PercentageCorrect is the overall correctness, rounded server-side.
	PercentageCorrect int `json:"percentage_correct"`

	ReadingCorrect       int `json:"reading_correct"`
	ReadingCurrentStreak int `json:"reading_current_streak"`
	ReadingIncorrect     int `json:"reading_incorrect"`
	ReadingMaxStreak     int `json:"reading_max_streak"`

	SubjectID   int64       `json:"subject_id"`
	SubjectType SubjectType `json:"subject_type"`
}
