package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProjectActivityState(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.Local)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name      string
		start     *time.Time
		end       *time.Time
		estimated int
		expected  ActivityTimeState
	}{
		{
			name:     "not started",
			expected: ActivityTimeState{Status: StatusPending, DisplayEndTime: DisplayPending},
		},
		{
			name:      "finished by estimate",
			start:     at(-120 * time.Minute),
			estimated: 60,
			expected:  ActivityTimeState{Status: StatusFinished, PercentComplete: 100, ElapsedMinutes: 60, DisplayEndTime: "11:00"},
		},
		{
			name:      "in progress halfway",
			start:     at(-30 * time.Minute),
			estimated: 60,
			expected:  ActivityTimeState{Status: StatusInProgress, PercentComplete: 50, ElapsedMinutes: 30, DisplayEndTime: DisplayInProgress},
		},
		{
			name:     "default estimate applies",
			start:    at(-15 * time.Minute),
			expected: ActivityTimeState{Status: StatusInProgress, PercentComplete: 25, ElapsedMinutes: 15, DisplayEndTime: DisplayInProgress},
		},
		{
			name:      "actual end wins over estimate",
			start:     at(-90 * time.Minute),
			end:       at(-10 * time.Minute),
			estimated: 300,
			expected:  ActivityTimeState{Status: StatusFinished, PercentComplete: 100, ElapsedMinutes: 80, DisplayEndTime: "11:50"},
		},
		{
			name:     "end before start is invalid",
			start:    at(-10 * time.Minute),
			end:      at(-20 * time.Minute),
			expected: ActivityTimeState{Status: StatusPending, DisplayEndTime: DisplayInvalid},
		},
		{
			name:      "start in the future clamps percent but reports negative elapsed",
			start:     at(30 * time.Minute),
			estimated: 60,
			expected:  ActivityTimeState{Status: StatusInProgress, PercentComplete: 0, ElapsedMinutes: -30, DisplayEndTime: DisplayInProgress},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectActivityState(tt.start, tt.end, tt.estimated, now)
			assert.Equal(t, tt.expected.Status, got.Status)
			assert.InDelta(t, tt.expected.PercentComplete, got.PercentComplete, 0.01)
			assert.Equal(t, tt.expected.ElapsedMinutes, got.ElapsedMinutes)
			assert.Equal(t, tt.expected.DisplayEndTime, got.DisplayEndTime)
			assert.GreaterOrEqual(t, got.PercentComplete, 0.0)
			assert.LessOrEqual(t, got.PercentComplete, 100.0)
		})
	}
}

func TestProjectActivityState_FinishedAtExactEnd(t *testing.T) {
	start := time.Date(2024, 5, 2, 8, 0, 0, 0, time.Local)
	end := start.Add(45 * time.Minute)

	got := ProjectActivityState(&start, &end, 0, end)
	assert.True(t, got.IsFinished())
	assert.Equal(t, 45, got.ElapsedMinutes)
}
