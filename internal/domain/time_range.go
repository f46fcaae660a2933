package domain

import (
	"time"
)

// RangeState classifies a resolved time range.
type RangeState int

const (
	// RangeNone means at least one bound was absent.
	RangeNone RangeState = iota
	// RangeValid means end is strictly after start.
	RangeValid
	// RangeInvalid means the resolved interval has no positive length.
	RangeInvalid
)

// String returns the state name.
func (s RangeState) String() string {
	switch s {
	case RangeNone:
		return "none"
	case RangeValid:
		return "valid"
	case RangeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// referenceDay anchors ranges that are not tied to a calendar date.
var referenceDay = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// TimeRange is a pair of time-of-day bounds resolved to absolute instants.
type TimeRange struct {
	Start           time.Time
	End             time.Time
	Minutes         int
	CrossesMidnight bool
	State           RangeState
}

// IsValid reports whether the range has a positive length.
func (r TimeRange) IsValid() bool {
	return r.State == RangeValid
}

// Duration returns the resolved span, zero unless the range is valid.
func (r TimeRange) Duration() time.Duration {
	if !r.IsValid() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// ResolveRange resolves start and end against a fixed reference day.
func ResolveRange(start, end *ClockTime) TimeRange {
	return ResolveRangeOn(referenceDay, start, end)
}

// ResolveRangeOn resolves start and end on the calendar day of day.
// An end earlier than start belongs to the following day. Equal bounds
// form a zero-length interval and are not moved.
func ResolveRangeOn(day time.Time, start, end *ClockTime) TimeRange {
	if start == nil || end == nil {
		return TimeRange{State: RangeNone}
	}

	r := TimeRange{
		Start: start.On(day),
		End:   end.On(day),
	}

	if end.MinutesSinceMidnight() < start.MinutesSinceMidnight() {
		r.End = end.On(day.AddDate(0, 0, 1))
		r.CrossesMidnight = true
	}

	if !r.End.After(r.Start) {
		r.State = RangeInvalid
		return r
	}

	r.State = RangeValid
	r.Minutes = int(r.End.Sub(r.Start) / time.Minute)
	return r
}

// MinutesBetween returns the length in whole minutes of the interval
// between two "HH:MM" strings, or 0 when either is absent or the
// interval is not positive.
func MinutesBetween(start, end string) int {
	return ResolveRange(ParseOptionalClockTime(start), ParseOptionalClockTime(end)).Minutes
}

// CombineDateAndClock places an "HH:MM" string on the given date in the
// date's location. Returns nil when the clock string is absent or invalid.
func CombineDateAndClock(date time.Time, clock string) *time.Time {
	ct := ParseOptionalClockTime(clock)
	if ct == nil {
		return nil
	}
	t := ct.On(date)
	return &t
}
