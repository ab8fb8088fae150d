package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// ErrResetAtomicity is wrapped by every reset planning failure. A failed plan
// produces no partial output: either every affected record transitions or
// none do.
var ErrResetAtomicity = errors.New("srs: reset could not be applied in full")

// ResetPlan describes a user-initiated rollback to a target level.
type ResetPlan struct {
	OriginalLevel int
	TargetLevel   int

	// ConfirmedAt stamps the abandonment marker and the new progression.
	ConfirmedAt time.Time
}

// AssignmentRecord pairs an assignment with its id and subject level.
type AssignmentRecord struct {
	ID    int64
	Level int
	Data  resource.Assignment
}

// StatisticRecord pairs a review statistic with its id and subject level.
type StatisticRecord struct {
	ID    int64
	Level int
	Data  resource.ReviewStatistic
}

// ProgressionRecord pairs a level progression with its id.
type ProgressionRecord struct {
	ID   int64
	Data resource.LevelProgression
}

// ResetInput is the full set of records affected by a reset: every
// progression on the account plus the assignments and review statistics for
// the levels between target and original, inclusive.
type ResetInput struct {
	Progressions []ProgressionRecord
	Assignments  []AssignmentRecord
	Statistics   []StatisticRecord
}

// ResetResult is the complete post-reset state of every affected record.
type ResetResult struct {
	// Abandoned is the previously current progression, closed with an
	// abandonment marker.
	Abandoned ProgressionRecord

	// Opened is the fresh progression at the target level. Its ID is zero
	// until persisted.
	Opened ProgressionRecord

	// Assignments and Statistics hold every input record reverted to its
	// pre-unlock default state, in input order.
	Assignments []AssignmentRecord
	Statistics  []StatisticRecord
}

// PlanReset computes the compensating transaction for a reset. The
// computation is all-or-nothing: any inconsistency in the input (no open
// progression at the original level, a record outside the affected level
// range, a target above the original level) fails the whole plan and nothing
// is produced.
//
// Reverted assignments and statistics go back to their default state: stage
// at the table's unlocking position, no availability, no progress
// timestamps, counters zeroed. The caller persists the result, atomically
// from its own perspective.
func PlanReset(plan ResetPlan, input ResetInput) (ResetResult, error) {
	if plan.TargetLevel < 1 || plan.TargetLevel > plan.OriginalLevel {
		return ResetResult{}, fmt.Errorf("%w: target level %d outside [1, %d]",
			ErrResetAtomicity, plan.TargetLevel, plan.OriginalLevel)
	}

	current, err := currentProgression(input.Progressions, plan.OriginalLevel)
	if err != nil {
		return ResetResult{}, err
	}

	for _, a := range input.Assignments {
		if a.Level < plan.TargetLevel || a.Level > plan.OriginalLevel {
			return ResetResult{}, fmt.Errorf("%w: assignment %d at level %d outside reset range [%d, %d]",
				ErrResetAtomicity, a.ID, a.Level, plan.TargetLevel, plan.OriginalLevel)
		}
	}
	for _, s := range input.Statistics {
		if s.Level < plan.TargetLevel || s.Level > plan.OriginalLevel {
			return ResetResult{}, fmt.Errorf("%w: review statistic %d at level %d outside reset range [%d, %d]",
				ErrResetAtomicity, s.ID, s.Level, plan.TargetLevel, plan.OriginalLevel)
		}
	}

	confirmed := plan.ConfirmedAt

	abandoned := current
	abandoned.Data.AbandonedAt = &confirmed

	opened := ProgressionRecord{
		Data: resource.LevelProgression{
			CreatedAt:  confirmed,
			Level:      plan.TargetLevel,
			UnlockedAt: &confirmed,
		},
	}

	result := ResetResult{
		Abandoned:   abandoned,
		Opened:      opened,
		Assignments: make([]AssignmentRecord, len(input.Assignments)),
		Statistics:  make([]StatisticRecord, len(input.Statistics)),
	}

	for i, a := range input.Assignments {
		result.Assignments[i] = AssignmentRecord{
			ID:    a.ID,
			Level: a.Level,
			Data: resource.Assignment{
				CreatedAt:   a.Data.CreatedAt,
				Hidden:      a.Data.Hidden,
				SubjectID:   a.Data.SubjectID,
				SubjectType: a.Data.SubjectType,
			},
		}
	}
	for i, s := range input.Statistics {
		result.Statistics[i] = StatisticRecord{
			ID:    s.ID,
			Level: s.Level,
			Data: resource.ReviewStatistic{
				CreatedAt:   s.Data.CreatedAt,
				Hidden:      s.Data.Hidden,
				SubjectID:   s.Data.SubjectID,
				SubjectType: s.Data.SubjectType,
			},
		}
	}

	return result, nil
}

// currentProgression finds the single open progression at the original
// level. Zero or multiple candidates mean the account state is inconsistent
// with the plan.
func currentProgression(progressions []ProgressionRecord, level int) (ProgressionRecord, error) {
	var found *ProgressionRecord
	for i := range progressions {
		p := &progressions[i]
		if p.Data.Level != level || p.Data.AbandonedAt != nil || p.Data.CompletedAt != nil {
			continue
		}
		if found != nil {
			return ProgressionRecord{}, fmt.Errorf("%w: multiple open progressions at level %d",
				ErrResetAtomicity, level)
		}
		found = p
	}
	if found == nil {
		return ProgressionRecord{}, fmt.Errorf("%w: no open progression at level %d",
			ErrResetAtomicity, level)
	}
	return *found, nil
}
