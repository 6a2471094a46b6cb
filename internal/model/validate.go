package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("model: validation failed")

// ValidationError is returned for input rejected before any store access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("model: invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		return Date(fl.Field().String()).IsValid()
	})
	mustRegister(v, "achievement", func(fl validator.FieldLevel) bool {
		return AchievementLevel(fl.Field().String()).IsValid()
	})
	mustRegister(v, "todo_kind", func(fl validator.FieldLevel) bool {
		return TodoKind(fl.Field().String()).IsValid()
	})
	mustRegister(v, "source_kind", func(fl validator.FieldLevel) bool {
		return SourceKind(fl.Field().String()).IsValid()
	})
	mustRegister(v, "milestone_status", func(fl validator.FieldLevel) bool {
		return MilestoneStatus(fl.Field().String()).IsValid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// validateStruct runs the struct tags and reports the first failure as a
// *ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fieldName(fe.Field()), Message: tagMessage(fe)}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// fieldName snake-cases a Go field name, keeping acronym runs together:
// SegmentID becomes segment_id.
func fieldName(goName string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range goName {
		upper := r >= 'A' && r <= 'Z'
		if upper {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		prevLower = !upper
		b.WriteRune(r)
	}
	return b.String()
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return "is required"
	case "isodate":
		return fmt.Sprintf("%q is not a YYYY-MM-DD date", fe.Value())
	case "gt":
		return "must be positive"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "hexcolor":
		return fmt.Sprintf("%q is not a hex color", fe.Value())
	default:
		return fmt.Sprintf("%v is not a valid value", fe.Value())
	}
}
