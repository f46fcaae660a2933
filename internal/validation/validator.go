package validation

import (
	"strings"
	"time"

	"jornada-tracker/internal/config"
	"jornada-tracker/internal/domain"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsNonEmptyList checks that at least one entry is non-blank
func (v *Validator) IsNonEmptyList(values []string) bool {
	for _, s := range values {
		if v.IsNonEmptyString(s) {
			return true
		}
	}
	return false
}

// IsValidClockTime checks an "HH:MM" time of day
func (v *Validator) IsValidClockTime(s string) bool {
	_, err := domain.ParseClockTime(s)
	return err == nil
}

// IsReasonableDate checks that a shift date is not too far in the future.
// Past dates are allowed so operators can record forgotten days.
func (v *Validator) IsReasonableDate(t time.Time) bool {
	now := time.Now()
	tenYearsAgo := now.AddDate(-10, 0, 0)
	limit := now.AddDate(0, 0, v.getMaxFutureDays()+1)
	y, m, d := limit.Date()
	limit = time.Date(y, m, d, 0, 0, 0, 0, limit.Location())

	return t.After(tenYearsAgo) && t.Before(limit)
}

// IsValidDateRange checks if a date range is logical
func (v *Validator) IsValidDateRange(startTime, endTime *time.Time) bool {
	if startTime == nil || endTime == nil {
		return true // open-ended ranges are allowed
	}
	return startTime.Before(*endTime) || startTime.Equal(*endTime)
}

// ValidateShiftDate parses a "YYYY-MM-DD" date and checks it is reasonable
func (v *Validator) ValidateShiftDate(s string) (time.Time, error) {
	validationError := NewValidationError()

	date, err := domain.ParseDate(s)
	if err != nil {
		validationError.AddInvalidFormatError("fecha", s, "AAAA-MM-DD")
		return time.Time{}, validationError
	}
	if !v.IsReasonableDate(date) {
		validationError.AddInvalidValueError("fecha", s, "fuera del rango permitido")
		return time.Time{}, validationError
	}
	return date, nil
}

// ValidateDateRange parses optional "YYYY-MM-DD" bounds of an export range
func (v *Validator) ValidateDateRange(from, to string) (*time.Time, *time.Time, error) {
	validationError := NewValidationError()
	var start, end *time.Time

	if v.IsNonEmptyString(from) {
		d, err := domain.ParseDate(from)
		if err != nil {
			validationError.AddInvalidFormatError("desde", from, "AAAA-MM-DD")
		} else {
			start = &d
		}
	}
	if v.IsNonEmptyString(to) {
		d, err := domain.ParseDate(to)
		if err != nil {
			validationError.AddInvalidFormatError("hasta", to, "AAAA-MM-DD")
		} else {
			end = &d
		}
	}
	if validationError.HasErrors() {
		return nil, nil, validationError
	}

	if !v.IsValidDateRange(start, end) {
		validationError.AddInvalidRangeError("desde", from, "debe ser anterior a la fecha final")
		return nil, nil, validationError
	}
	return start, end, nil
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// getMaxFutureDays returns the configured look-ahead for shift dates or default
func (v *Validator) getMaxFutureDays() int {
	if v.config != nil {
		return v.config.Time.MaxFutureDays
	}
	return 1
}
