package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"jornada-tracker/internal/domain"
)

// ErrorResponse describes one failed struct tag rule.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseClockTime(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("time_type", func(fl validator.FieldLevel) bool {
		return domain.TimeType(fl.Field().String()).IsKnown()
	})
}

// ValidateStruct runs the `validate` tags of data and returns one entry
// per failed rule.
func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, fe := range fieldErrs {
			errors = append(errors, &ErrorResponse{
				FailedField: fe.StructNamespace(),
				Tag:         fe.Tag(),
				Value:       fe.Param(),
			})
		}
	}
	return errors
}

// FromStructErrors folds struct tag failures into a ValidationError, or
// returns nil when there are none.
func FromStructErrors(errs []*ErrorResponse) error {
	if len(errs) == 0 {
		return nil
	}

	validationError := NewValidationError()
	for _, e := range errs {
		reason := e.Tag
		if e.Value != "" {
			reason = fmt.Sprintf("%s=%s", e.Tag, e.Value)
		}
		validationError.AddInvalidValueError(e.FailedField, nil, reason)
	}
	return validationError
}
