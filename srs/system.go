// Package srs implements the spaced-repetition stage and timing engine.
//
// A spaced repetition system is an ordered table of N+1 stages (0..N). Stage
// positions partition into unlocking (0), starting (the first reviewable
// stage), passing (counts toward level progression) and burning (N, the
// absorbing terminal stage). The engine is pure computation: given a stage, a
// review outcome and a time, it produces the next stage and the moment the
// assignment becomes reviewable again. Networking and persistence live
// elsewhere.
package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// Sentinel errors for the srs package. Use errors.Is to check.
var (
	ErrInvalidSystem = errors.New("srs: invalid stage table")
	ErrInvalidStage  = errors.New("srs: stage out of range")
)

// System is the stage table in effect for a subject kind.
type System struct {
	// ID matches the spaced_repetition_system resource id, zero for ad-hoc
	// tables.
	ID int64

	Name string

	// UnlockingStage is the initial stage of a fresh assignment, always 0.
	UnlockingStage int

	// StartingStage is the minimum stage at which a subject appears in
	// reviews, and the floor for penalty demotions.
	StartingStage int

	// PassingStage is the first stage counting toward level progression.
	PassingStage int

	// BurningStage is the terminal stage N. No transitions occur past it.
	BurningStage int

	// Intervals holds one entry per stage position. The unlocking and burning
	// stages carry a zero interval; every stage in between carries the time
	// until the next review.
	Intervals []time.Duration
}

// Default returns the stage table used for all current subject kinds: ten
// positions with the classic 4h/8h/23h/47h apprentice intervals and
// week-to-months gaps above.
func Default() System {
	return System{
		ID:             1,
		Name:           "Default system for dictionary subjects",
		UnlockingStage: 0,
		StartingStage:  1,
		PassingStage:   5,
		BurningStage:   9,
		Intervals: []time.Duration{
			0,
			4 * time.Hour,
			8 * time.Hour,
			23 * time.Hour,
			47 * time.Hour,
			167 * time.Hour,
			335 * time.Hour,
			719 * time.Hour,
			2879 * time.Hour,
			0,
		},
	}
}

// FromResource builds a System from a decoded spaced_repetition_system
// resource. Stage intervals are converted from the resource's interval unit.
func FromResource(id int64, data *resource.SpacedRepetitionSystem) (System, error) {
	sys := System{
		ID:             id,
		Name:           data.Name,
		UnlockingStage: data.UnlockingStagePosition,
		StartingStage:  data.StartingStagePosition,
		PassingStage:   data.PassingStagePosition,
		BurningStage:   data.BurningStagePosition,
		Intervals:      make([]time.Duration, len(data.Stages)),
	}

	for i, stage := range data.Stages {
		if stage.Position != i {
			return System{}, fmt.Errorf("%w: stage position %d at index %d", ErrInvalidSystem, stage.Position, i)
		}
		if stage.Interval == nil {
			continue
		}
		unit := "seconds"
		if stage.IntervalUnit != nil {
			unit = *stage.IntervalUnit
		}
		switch unit {
		case "milliseconds":
			sys.Intervals[i] = time.Duration(*stage.Interval) * time.Millisecond
		case "seconds":
			sys.Intervals[i] = time.Duration(*stage.Interval) * time.Second
		case "minutes":
			sys.Intervals[i] = time.Duration(*stage.Interval) * time.Minute
		case "hours":
			sys.Intervals[i] = time.Duration(*stage.Interval) * time.Hour
		default:
			return System{}, fmt.Errorf("%w: unknown interval unit %q", ErrInvalidSystem, unit)
		}
	}

	if err := sys.Validate(); err != nil {
		return System{}, err
	}
	return sys, nil
}

// Validate checks the table's structural invariants.
func (s System) Validate() error {
	if len(s.Intervals) != s.BurningStage+1 {
		return fmt.Errorf("%w: %d intervals for burning stage %d", ErrInvalidSystem, len(s.Intervals), s.BurningStage)
	}
	if s.UnlockingStage != 0 {
		return fmt.Errorf("%w: unlocking stage must be 0, got %d", ErrInvalidSystem, s.UnlockingStage)
	}
	if s.StartingStage <= s.UnlockingStage || s.StartingStage > s.PassingStage {
		return fmt.Errorf("%w: starting stage %d", ErrInvalidSystem, s.StartingStage)
	}
	if s.PassingStage > s.BurningStage {
		return fmt.Errorf("%w: passing stage %d past burning stage %d", ErrInvalidSystem, s.PassingStage, s.BurningStage)
	}
	return nil
}

// Interval returns the review interval configured for a stage.
func (s System) Interval(stage int) (time.Duration, error) {
	if stage < 0 || stage >= len(s.Intervals) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStage, stage)
	}
	return s.Intervals[stage], nil
}

// IsBurned reports whether the stage is the absorbing terminal stage.
func (s System) IsBurned(stage int) bool { return stage >= s.BurningStage }

// IsPassed reports whether the stage counts toward level progression.
func (s System) IsPassed(stage int) bool { return stage >= s.PassingStage }
