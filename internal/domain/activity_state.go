package domain

import (
	"math"
	"time"
)

// DefaultEstimatedMinutes is used when an activity has no end and no estimate.
const DefaultEstimatedMinutes = 60

// Display sentinels for ActivityTimeState.DisplayEndTime.
const (
	DisplayPending    = "Pending"
	DisplayInProgress = "In progress"
	DisplayInvalid    = "Invalid"
)

// ActivityStatus is the live status of an activity.
type ActivityStatus string

const (
	StatusPending    ActivityStatus = "pending"
	StatusInProgress ActivityStatus = "in_progress"
	StatusFinished   ActivityStatus = "finished"
)

// ActivityTimeState is a point-in-time projection of an activity's progress.
type ActivityTimeState struct {
	Status          ActivityStatus `json:"status"`
	PercentComplete float64        `json:"percentComplete"`
	ElapsedMinutes  int            `json:"elapsedMinutes"`
	DisplayEndTime  string         `json:"displayEndTime"`
}

// IsFinished reports whether no further recomputation is needed.
func (s ActivityTimeState) IsFinished() bool {
	return s.Status == StatusFinished
}

// ProjectActivityState computes the state of an activity as of now.
// end takes precedence over estimatedMinutes; a non-positive estimate
// falls back to DefaultEstimatedMinutes.
func ProjectActivityState(start, end *time.Time, estimatedMinutes int, now time.Time) ActivityTimeState {
	if start == nil || start.IsZero() {
		return ActivityTimeState{Status: StatusPending, DisplayEndTime: DisplayPending}
	}

	if estimatedMinutes <= 0 {
		estimatedMinutes = DefaultEstimatedMinutes
	}

	effectiveEnd := start.Add(time.Duration(estimatedMinutes) * time.Minute)
	if end != nil && !end.IsZero() {
		effectiveEnd = *end
	}

	total := effectiveEnd.Sub(*start)
	if total <= 0 {
		return ActivityTimeState{Status: StatusPending, DisplayEndTime: DisplayInvalid}
	}

	if !now.Before(effectiveEnd) {
		return ActivityTimeState{
			Status:          StatusFinished,
			PercentComplete: 100,
			ElapsedMinutes:  roundMinutes(total),
			DisplayEndTime:  effectiveEnd.Local().Format("15:04"),
		}
	}

	elapsed := now.Sub(*start)
	percent := float64(elapsed) / float64(total) * 100
	return ActivityTimeState{
		Status:          StatusInProgress,
		PercentComplete: math.Max(0, math.Min(100, percent)),
		ElapsedMinutes:  roundMinutes(elapsed),
		DisplayEndTime:  DisplayInProgress,
	}
}

func roundMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}
