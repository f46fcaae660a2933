package services

import (
	"fmt"
	"strings"
	"time"

	"jornada-tracker/internal/config"
	"jornada-tracker/internal/validation"
)

// timeServiceImpl implements the TimeService interface
type timeServiceImpl struct {
	validator *validation.Validator
	now       func() time.Time
}

// NewTimeService creates a new TimeService instance
func NewTimeService(cfg *config.Config) TimeService {
	return &timeServiceImpl{
		validator: validation.NewValidatorWithConfig(cfg),
		now:       time.Now,
	}
}

// FormatMinutes renders minutes as "Xh Ym"
func (t *timeServiceImpl) FormatMinutes(minutes int) string {
	return FormatMinutes(minutes)
}

// FormatMinutesWithTotal renders minutes as "N min (Xh Ym)"
func (t *timeServiceImpl) FormatMinutesWithTotal(minutes int) string {
	return fmt.Sprintf("%d min (%s)", minutes, FormatMinutes(minutes))
}

// ParseShiftDate parses a "YYYY-MM-DD" shift date. An empty string means today.
func (t *timeServiceImpl) ParseShiftDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return t.Today(), nil
	}
	return t.validator.ValidateShiftDate(s)
}

// Today returns local midnight of the current day
func (t *timeServiceImpl) Today() time.Time {
	now := t.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// IsToday checks if a given time is within today's date
func (t *timeServiceImpl) IsToday(timeValue time.Time) bool {
	now := t.now()
	year1, month1, day1 := timeValue.Date()
	year2, month2, day2 := now.Date()
	return year1 == year2 && month1 == month2 && day1 == day2
}

// FormatMinutes renders minutes as "Xh Ym". Negative values print as "0h 0m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
