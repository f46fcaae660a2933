package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ClockTime is a time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses an "HH:MM" string in 24-hour notation.
func ParseClockTime(s string) (ClockTime, error) {
	matches := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return ClockTime{}, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// ParseOptionalClockTime returns nil for an empty or malformed string.
func ParseOptionalClockTime(s string) *ClockTime {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	ct, err := ParseClockTime(s)
	if err != nil {
		return nil
	}
	return &ct
}

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}

// String formats the clock time as zero-padded "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// MinutesSinceMidnight returns the position of c within the day.
func (c ClockTime) MinutesSinceMidnight() int {
	return c.Hour*60 + c.Minute
}

// On anchors the clock time on the calendar day of day, in day's location.
func (c ClockTime) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

// FormatClock renders an instant as local "HH:MM", or "" when t is nil.
func FormatClock(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format("15:04")
}

// EarliestClock returns the earliest valid "HH:MM" value, compared by
// minutes since midnight, or "" when none is valid.
func EarliestClock(values []string) string {
	return pickClock(values, func(a, b int) bool { return a < b })
}

// LatestClock returns the latest valid "HH:MM" value, or "" when none is valid.
func LatestClock(values []string) string {
	return pickClock(values, func(a, b int) bool { return a > b })
}

func pickClock(values []string, better func(a, b int) bool) string {
	best := ""
	bestMinutes := 0
	for _, v := range values {
		ct := ParseOptionalClockTime(v)
		if ct == nil {
			continue
		}
		m := ct.MinutesSinceMidnight()
		if best == "" || better(m, bestMinutes) {
			best = ct.String()
			bestMinutes = m
		}
	}
	return best
}

// ShiftBounds derives a shift's start and end from its activities.
func ShiftBounds(activities []Activity) (start, end string) {
	starts := make([]string, 0, len(activities))
	ends := make([]string, 0, len(activities))
	for _, a := range activities {
		starts = append(starts, a.StartTime)
		ends = append(ends, a.EndTime)
	}
	return EarliestClock(starts), LatestClock(ends)
}
