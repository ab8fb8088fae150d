package resource

import "time"

// Summary is the report envelope listing reviews and lessons available now
// and in the upcoming hours. It regenerates at the top of every hour and is
// not paginated.
type Summary struct {
	Common
	Data SummaryData `json:"data"`
}

// SummaryData is the report body.
type SummaryData struct {
	// Lessons available right now, bucketed by availability time.
	Lessons []SummaryBucket `json:"lessons"`

	// NextReviewsAt is the earliest upcoming review, null when nothing is
	// scheduled.
	NextReviewsAt *time.Time `json:"next_reviews_at"`

	// Reviews available now and over the next 24 hours, one bucket per hour.
	Reviews []SummaryBucket `json:"reviews"`
}

// SummaryBucket groups subject ids by the hour they become reviewable.
type SummaryBucket struct {
	AvailableAt time.Time `json:"available_at"`
	SubjectIDs  []int64   `json:"subject_ids"`
}
