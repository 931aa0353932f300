package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// studentIDPattern matches roster ids like "STD-5090".
var studentIDPattern = regexp.MustCompile(`^STD-\d{4,}$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateAttendanceSheet validates a daily sheet submission beyond struct
// tags: entry statuses must be supported and no student may appear twice.
func (bv *BusinessValidator) ValidateAttendanceSheet(req *AttendanceSheetRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	seen := make(map[string]bool, len(req.Entries))
	for _, entry := range req.Entries {
		if seen[entry.StudentID] {
			errors = append(errors, ValidationError{
				Field:   "entries",
				Message: fmt.Sprintf("duplicate entry for student %s", entry.StudentID),
				Value:   entry.StudentID,
				Rule:    "business_logic",
			})
		}
		seen[entry.StudentID] = true
	}

	return errors
}

// ValidatePermissionTransition enforces the request state machine: PENDING
// may move to APPROVED or REJECTED once; terminal states never move again.
func (bv *BusinessValidator) ValidatePermissionTransition(current, next models.PermissionStatus) ValidationErrors {
	var errors ValidationErrors

	if !next.Terminal() {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot transition to %s", next),
			Value:   next,
			Rule:    "status_transition",
		})
		return errors
	}

	if current != models.PermissionPending {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot resolve request already in %s state", current),
			Value:   current,
			Rule:    "status_transition",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Calendar date in YYYY-MM-DD form
	bv.validate.RegisterValidation("roster_date", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true // Optional fields pass empty through omitempty
		}
		_, err := time.Parse("2006-01-02", value)
		return err == nil
	})

	// Supported attendance status values
	bv.validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})

	// Resolution statuses only; PENDING is not a resolution
	bv.validate.RegisterValidation("permission_resolution", func(fl validator.FieldLevel) bool {
		return models.PermissionStatus(fl.Field().String()).Terminal()
	})

	// Roster id format
	bv.validate.RegisterValidation("student_id", func(fl validator.FieldLevel) bool {
		id := strings.TrimSpace(fl.Field().String())
		return studentIDPattern.MatchString(id)
	})
}
