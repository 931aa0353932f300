package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps struct validation and domain business rules behind one
// entry point shared by services and handlers.
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	business := NewBusinessValidator()
	return &Validator{
		validate: business.validate,
		business: business,
	}
}

// Struct runs plain struct-tag validation.
func (v *Validator) Struct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// GetBusinessValidator returns the business rule validator.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}
