package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"trainer_dashboard/internal/apperr"

	"github.com/go-playground/validator/v10"
)

const (
	clockLayout   = "15:04"
	minutesPerDay = 24 * 60
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and returns the first failure as a validation error.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperr.Validation("%s", fieldMessage(fieldErrs[0]))
	}
	return apperr.Validation("%s", err.Error())
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// parseClock normalizes an HH:MM value. Empty input yields nil.
func parseClock(field, value string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return nil, apperr.Validation("%s must be HH:MM", field)
	}
	formatted := t.Format(clockLayout)
	return &formatted, nil
}

// addMinutes returns clock + minutes, wrapping at midnight.
func addMinutes(clock string, minutes int) string {
	t, _ := time.Parse(clockLayout, clock)
	return t.Add(time.Duration(minutes) * time.Minute).Format(clockLayout)
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
