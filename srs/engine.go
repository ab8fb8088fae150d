package srs

import (
	"fmt"
	"time"
)

// PenaltyPolicy controls how far a stage drops after a review with wrong
// answers. The live API documents the behavior only qualitatively, so the
// exact mapping stays configurable; the zero value is filled with the
// convention observed on the production service.
type PenaltyPolicy struct {
	// IncorrectStep is the divisor applied to the wrong-answer count: the
	// demotion counts one step per IncorrectStep incorrect answers, rounded
	// up. Zero means 2.
	IncorrectStep int

	// SevereFactor multiplies the demotion for stages at or above SevereFrom.
	// Zero means 2.
	SevereFactor int

	// SevereFrom is the first stage position where SevereFactor applies.
	// Zero means 5.
	SevereFrom int
}

func (p PenaltyPolicy) withDefaults() PenaltyPolicy {
	if p.IncorrectStep == 0 {
		p.IncorrectStep = 2
	}
	if p.SevereFactor == 0 {
		p.SevereFactor = 2
	}
	if p.SevereFrom == 0 {
		p.SevereFrom = 5
	}
	return p
}

// penalty returns the number of stages to drop from the given stage for the
// given wrong-answer count.
func (p PenaltyPolicy) penalty(stage, incorrect int) int {
	if incorrect <= 0 {
		return 0
	}
	steps := (incorrect + p.IncorrectStep - 1) / p.IncorrectStep
	factor := 1
	if stage >= p.SevereFrom {
		factor = p.SevereFactor
	}
	return steps * factor
}

// Engine applies review outcomes to assignment stages using one stage table
// and one penalty policy. The engine holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	system  System
	penalty PenaltyPolicy
}

// NewEngine creates an engine for the given system. A zero PenaltyPolicy
// selects the default mapping.
func NewEngine(system System, policy PenaltyPolicy) (*Engine, error) {
	if err := system.Validate(); err != nil {
		return nil, err
	}
	return &Engine{system: system, penalty: policy.withDefaults()}, nil
}

// System returns the stage table the engine operates on.
func (e *Engine) System() System { return e.system }

// Outcome is the result of applying a review to a stage.
type Outcome struct {
	// Stage is the position after the transition, within [0, burning].
	Stage int

	// AvailableAt is when the assignment next appears in reviews: the review
	// time advanced to the top of the next hour plus the new stage's
	// interval. Nil when the new stage is burned.
	AvailableAt *time.Time

	// Passed reports whether this transition first reached the passing stage.
	Passed bool

	// Burned reports whether this transition reached the burning stage.
	Burned bool
}

// Apply maps a stage and a wrong-answer count to the next stage and its
// availability. at is the submission time of the review.
//
// A fully correct review moves the stage up by one, clamped at burning. Wrong
// answers demote by the penalty policy, never below the starting stage.
// Burned stages are absorbing: applying a review to one is an error, matching
// the server which rejects reviews for burned assignments.
func (e *Engine) Apply(stage, incorrect int, at time.Time) (Outcome, error) {
	if stage < 0 || stage > e.system.BurningStage {
		return Outcome{}, fmt.Errorf("%w: %d", ErrInvalidStage, stage)
	}
	if e.system.IsBurned(stage) {
		return Outcome{}, fmt.Errorf("%w: stage %d is burned", ErrInvalidStage, stage)
	}

	next := stage
	if incorrect <= 0 {
		next = stage + 1
		if next > e.system.BurningStage {
			next = e.system.BurningStage
		}
	} else {
		next = stage - e.penalty.penalty(stage, incorrect)
		if next < e.system.StartingStage {
			next = e.system.StartingStage
		}
	}

	out := Outcome{
		Stage:  next,
		Passed: next >= e.system.PassingStage && stage < e.system.PassingStage,
		Burned: e.system.IsBurned(next),
	}
	if !out.Burned {
		available := CeilHour(at).Add(e.system.Intervals[next])
		out.AvailableAt = &available
	}
	return out, nil
}

// NextAvailability returns when an assignment sitting at the given stage
// since the given time becomes reviewable, with the same hour arithmetic as
// Apply. Nil for the unlocking stage and burned stages, which have no
// scheduled review.
func (e *Engine) NextAvailability(stage int, since time.Time) (*time.Time, error) {
	if stage < 0 || stage > e.system.BurningStage {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStage, stage)
	}
	if stage == e.system.UnlockingStage || e.system.IsBurned(stage) {
		return nil, nil
	}
	at := CeilHour(since).Add(e.system.Intervals[stage])
	return &at, nil
}

// CeilHour advances a time to the top of the next hour. Times already on the
// hour are unchanged. Scheduling operates at hour granularity even though
// timestamps carry microsecond precision.
func CeilHour(t time.Time) time.Time {
	truncated := t.Truncate(time.Hour)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(time.Hour)
}
