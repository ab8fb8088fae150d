package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCeilHour(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "mid hour rounds up",
			in:   time.Date(2023, 6, 10, 15, 31, 0, 0, time.UTC),
			want: time.Date(2023, 6, 10, 16, 0, 0, 0, time.UTC),
		},
		{
			name: "on the hour unchanged",
			in:   time.Date(2023, 6, 10, 15, 0, 0, 0, time.UTC),
			want: time.Date(2023, 6, 10, 15, 0, 0, 0, time.UTC),
		},
		{
			name: "microsecond past the hour rounds up",
			in:   time.Date(2023, 6, 10, 15, 0, 0, 1000, time.UTC),
			want: time.Date(2023, 6, 10, 16, 0, 0, 0, time.UTC),
		},
		{
			name: "end of day crosses midnight",
			in:   time.Date(2023, 6, 10, 23, 59, 59, 0, time.UTC),
			want: time.Date(2023, 6, 11, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CeilHour(tt.in))
		})
	}
}

// eightHourTable keeps every interval at 8h so availability assertions stay
// independent of which stage the transition lands on.
func eightHourTable() System {
	return System{
		StartingStage: 1,
		PassingStage:  5,
		BurningStage:  9,
		Intervals: []time.Duration{
			0, 8 * time.Hour, 8 * time.Hour, 8 * time.Hour, 8 * time.Hour,
			8 * time.Hour, 8 * time.Hour, 8 * time.Hour, 8 * time.Hour, 0,
		},
	}
}

func TestEngine_Apply_Correct(t *testing.T) {
	engine, err := NewEngine(eightHourTable(), PenaltyPolicy{})
	require.NoError(t, err)

	at := time.Date(2023, 6, 10, 15, 31, 12, 0, time.UTC)

	out, err := engine.Apply(3, 0, at)
	require.NoError(t, err)

	assert.Equal(t, 4, out.Stage)
	require.NotNil(t, out.AvailableAt)
	assert.Equal(t, time.Date(2023, 6, 11, 0, 0, 0, 0, time.UTC), *out.AvailableAt)
	assert.False(t, out.Passed)
	assert.False(t, out.Burned)
}

func TestEngine_Apply_DefaultTableExample(t *testing.T) {
	// Stage 1 answered correctly at 3:31pm moves to stage 2 (8h interval) and
	// becomes available at midnight.
	engine, err := NewEngine(Default(), PenaltyPolicy{})
	require.NoError(t, err)

	at := time.Date(2023, 6, 10, 15, 31, 0, 0, time.UTC)
	out, err := engine.Apply(1, 0, at)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Stage)
	require.NotNil(t, out.AvailableAt)
	assert.Equal(t, time.Date(2023, 6, 11, 0, 0, 0, 0, time.UTC), *out.AvailableAt)
}

func TestEngine_Apply_Incorrect(t *testing.T) {
	engine, err := NewEngine(eightHourTable(), PenaltyPolicy{})
	require.NoError(t, err)

	at := time.Date(2023, 6, 10, 15, 31, 0, 0, time.UTC)

	tests := []struct {
		name      string
		stage     int
		incorrect int
		want      int
	}{
		{"two wrong below severe threshold drops one", 3, 2, 2},
		{"one wrong below severe threshold drops one", 3, 1, 2},
		{"three wrong below severe threshold drops two", 3, 3, 1},
		{"never below starting stage", 2, 8, 1},
		{"starting stage stays at floor", 1, 4, 1},
		{"severe stage doubles the drop", 6, 2, 4},
		{"severe stage four wrong drops four", 6, 4, 2},
		{"severe drop clamped at floor", 5, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := engine.Apply(tt.stage, tt.incorrect, at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Stage)
			require.NotNil(t, out.AvailableAt)
			assert.Equal(t, time.Date(2023, 6, 11, 0, 0, 0, 0, time.UTC), *out.AvailableAt)
		})
	}
}

func TestEngine_Apply_Burning(t *testing.T) {
	engine, err := NewEngine(eightHourTable(), PenaltyPolicy{})
	require.NoError(t, err)

	at := time.Date(2023, 6, 10, 15, 0, 0, 0, time.UTC)

	out, err := engine.Apply(8, 0, at)
	require.NoError(t, err)
	assert.Equal(t, 9, out.Stage)
	assert.True(t, out.Burned)
	assert.Nil(t, out.AvailableAt, "burned assignments leave the review queue")

	// Burned is absorbing: no further transitions.
	_, err = engine.Apply(9, 0, at)
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestEngine_Apply_PassedFlag(t *testing.T) {
	engine, err := NewEngine(eightHourTable(), PenaltyPolicy{})
	require.NoError(t, err)

	at := time.Date(2023, 6, 10, 15, 0, 0, 0, time.UTC)

	out, err := engine.Apply(4, 0, at)
	require.NoError(t, err)
	assert.True(t, out.Passed)

	// Already past the passing stage: not a fresh pass.
	out, err = engine.Apply(5, 0, at)
	require.NoError(t, err)
	assert.False(t, out.Passed)
}

func TestEngine_Apply_StageOutOfRange(t *testing.T) {
	engine, err := NewEngine(eightHourTable(), PenaltyPolicy{})
	require.NoError(t, err)

	at := time.Now()
	_, err = engine.Apply(-1, 0, at)
	assert.ErrorIs(t, err, ErrInvalidStage)

	_, err = engine.Apply(42, 0, at)
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestEngine_NextAvailability(t *testing.T) {
	engine, err := NewEngine(eightHourTable(), PenaltyPolicy{})
	require.NoError(t, err)

	since := time.Date(2023, 6, 10, 15, 31, 0, 0, time.UTC)

	at, err := engine.NextAvailability(3, since)
	require.NoError(t, err)
	require.NotNil(t, at)
	assert.Equal(t, time.Date(2023, 6, 11, 0, 0, 0, 0, time.UTC), *at)

	at, err = engine.NextAvailability(0, since)
	require.NoError(t, err)
	assert.Nil(t, at, "unlocking stage has no scheduled review")

	at, err = engine.NextAvailability(9, since)
	require.NoError(t, err)
	assert.Nil(t, at, "burned stage has no scheduled review")
}

func TestPenaltyPolicy_Custom(t *testing.T) {
	engine, err := NewEngine(eightHourTable(), PenaltyPolicy{
		IncorrectStep: 1,
		SevereFactor:  3,
		SevereFrom:    4,
	})
	require.NoError(t, err)

	at := time.Date(2023, 6, 10, 15, 0, 0, 0, time.UTC)

	out, err := engine.Apply(3, 2, at)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Stage)

	out, err = engine.Apply(8, 2, at)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Stage)
}

func TestNewEngine_InvalidSystem(t *testing.T) {
	sys := eightHourTable()
	sys.Intervals = sys.Intervals[:3]

	_, err := NewEngine(sys, PenaltyPolicy{})
	assert.ErrorIs(t, err, ErrInvalidSystem)
}

func TestDefaultSystem(t *testing.T) {
	sys := Default()
	require.NoError(t, sys.Validate())

	assert.Equal(t, 0, sys.UnlockingStage)
	assert.Equal(t, 1, sys.StartingStage)
	assert.Equal(t, 9, sys.BurningStage)
	assert.True(t, sys.IsBurned(9))
	assert.False(t, sys.IsBurned(8))
	assert.True(t, sys.IsPassed(5))
	assert.False(t, sys.IsPassed(4))

	ivl, err := sys.Interval(1)
	require.NoError(t, err)
	assert.Equal(t, 4*time.Hour, ivl)

	_, err = sys.Interval(10)
	assert.ErrorIs(t, err, ErrInvalidStage)
}
