package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts go-playground errors into the API shape.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var errors ValidationErrors
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errors = append(errors, ValidationError{
				Field:   fe.Field(),
				Message: errorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errors
	}

	return ValidationErrors{{Field: "", Message: err.Error()}}
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "roster_date":
		return "must be a valid date in YYYY-MM-DD format"
	case "attendance_status":
		return "must be one of PRESENT, ABSENT, PERMISSION"
	case "permission_resolution":
		return "must be APPROVED or REJECTED"
	case "student_id":
		return "must be a valid student id"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
