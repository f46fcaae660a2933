package services

import (
	"math"
	"time"

	"jornada-tracker/internal/domain"
)

// Aggregate derives the totals of a shift from its activities. The shift
// spans from the earliest start to the latest end, compared by minutes
// since midnight, and crosses midnight when the end is earlier.
func Aggregate(activities []domain.AggregateInput) domain.ShiftTotals {
	starts := make([]string, 0, len(activities))
	ends := make([]string, 0, len(activities))
	for _, a := range activities {
		starts = append(starts, a.StartTime)
		ends = append(ends, a.EndTime)
	}

	totals := domain.ShiftTotals{
		ShiftStart: domain.EarliestClock(starts),
		ShiftEnd:   domain.LatestClock(ends),
	}
	totals.RawMinutes = domain.MinutesBetween(totals.ShiftStart, totals.ShiftEnd)
	return sumActivities(totals, activities)
}

// AggregateWithRaw is Aggregate with the raw shift length supplied by the
// caller, as when the backend already computed it.
func AggregateWithRaw(activities []domain.AggregateInput, rawMinutes int) domain.ShiftTotals {
	totals := Aggregate(activities)
	totals.RawMinutes = rawMinutes
	return finish(totals)
}

// AggregateDraft computes the totals of a local draft.
func AggregateDraft(shift domain.Shift) domain.ShiftTotals {
	inputs := make([]domain.AggregateInput, 0, len(shift.Activities))
	for _, a := range shift.Activities {
		inputs = append(inputs, domain.InputFromDraft(a))
	}
	return Aggregate(inputs)
}

// AggregatePersisted computes the totals of a stored shift. When the
// backend recorded the shift's own start and end they define the span.
func AggregatePersisted(shift domain.PersistedShift) domain.ShiftTotals {
	inputs := make([]domain.AggregateInput, 0, len(shift.Activities))
	for _, a := range shift.Activities {
		inputs = append(inputs, domain.InputFromPersisted(a))
	}

	start, end := shift.StartTime.Ptr(), shift.EndTime.Ptr()
	if start == nil || end == nil {
		return Aggregate(inputs)
	}

	totals := AggregateWithRaw(inputs, spanMinutes(*start, *end))
	totals.ShiftStart = domain.FormatClock(start)
	totals.ShiftEnd = domain.FormatClock(end)
	return totals
}

// spanMinutes measures start to end, moving an end that is not after the
// start to the next day.
func spanMinutes(start, end time.Time) int {
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return int(end.Sub(start) / time.Minute)
}

func sumActivities(totals domain.ShiftTotals, activities []domain.AggregateInput) domain.ShiftTotals {
	totals.PaidPermitRanges = []string{}
	totals.UnpaidPermitRanges = []string{}
	totals.PermitObservations = []string{}

	for _, a := range activities {
		minutes := a.Minutes
		if minutes < 0 {
			minutes = 0
		}

		switch {
		case a.IsUnpaidPermit():
			totals.UnpaidPermitMinutes += minutes
			totals.UnpaidPermitRanges = append(totals.UnpaidPermitRanges, a.StartTime+"-"+a.EndTime)
		case a.IsPaidPermit():
			totals.PaidPermitMinutes += minutes
			totals.PaidPermitRanges = append(totals.PaidPermitRanges, a.StartTime+"-"+a.EndTime)
		}
		if a.TimeType == domain.TimeTypeLaborPermit {
			if obs := trimmed(a.Observations); obs != "" {
				totals.PermitObservations = append(totals.PermitObservations, obs)
			}
		}

		if a.IsLunch() {
			totals.LunchMinutes += minutes
		}
	}

	return finish(totals)
}

func finish(totals domain.ShiftTotals) domain.ShiftTotals {
	payable := totals.RawMinutes - totals.UnpaidPermitMinutes - totals.LunchMinutes
	if payable < 0 {
		payable = 0
	}
	totals.PayableMinutes = payable
	totals.PayableHours = DecimalHours(payable)
	return totals
}

// DecimalHours converts minutes to hours rounded to two decimals.
func DecimalHours(minutes int) float64 {
	if minutes <= 0 {
		return 0
	}
	return math.Round(float64(minutes)/60*100) / 100
}
