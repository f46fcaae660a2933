package live

import (
	"strconv"

	"jornada-tracker/internal/domain"
)

// TargetsFromShift builds one target per stored activity. Activities
// are keyed by id, or by position when the backend sent none.
func TargetsFromShift(shift domain.PersistedShift) []Target {
	targets := make([]Target, 0, len(shift.Activities))
	for i, a := range shift.Activities {
		key := a.ID
		if key == "" {
			key = strconv.Itoa(i)
		}
		targets = append(targets, Target{
			Key:              key,
			Start:            a.StartTime.Ptr(),
			End:              a.EndTime.Ptr(),
			EstimatedMinutes: a.Estimate(),
		})
	}
	return targets
}
