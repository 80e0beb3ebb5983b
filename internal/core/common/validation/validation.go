package validation

import (
	"fmt"

	errors "github.com/frahmantamala/investment-manager/internal"
)

type ValidatorFunc func(interface{}) *errors.ValidationError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		missing := false
		switch v := value.(type) {
		case string:
			missing = v == ""
		case int64:
			missing = v == 0
		case nil:
			missing = true
		}
		if missing {
			return &errors.ValidationError{
				Field:   fv.FieldName,
				Message: fmt.Sprintf("%s is required", fv.FieldName),
				Code:    string(errors.ErrCodeMissingField),
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		if s, ok := value.(string); ok && len(s) > max {
			return &errors.ValidationError{
				Field:   fv.FieldName,
				Message: fmt.Sprintf("%s must be at most %d characters", fv.FieldName, max),
				Code:    string(errors.ErrCodeValidationFailed),
			}
		}
		return nil
	})
	return fv
}

// Positive requires an int64 field to be greater than zero. Useful for
// referenced ids; amounts stay signed and only use Required.
func (fv *FieldValidator) Positive() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		if n, ok := value.(int64); ok && n <= 0 {
			return &errors.ValidationError{
				Field:   fv.FieldName,
				Message: fmt.Sprintf("%s must be positive", fv.FieldName),
				Code:    string(errors.ErrCodeValidationFailed),
			}
		}
		return nil
	})
	return fv
}

// Validate runs every registered check and returns a single AppError
// carrying all field failures, or nil when everything passes.
func (v *ValidationBuilder) Validate() error {
	var fieldErrors []errors.ValidationError
	for _, fv := range v.fields {
		for _, check := range fv.Validators {
			if ve := check(fv.Value); ve != nil {
				fieldErrors = append(fieldErrors, *ve)
				break
			}
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}

	appErr := errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed)
	return appErr.WithDetails(errors.ValidationErrors{Errors: fieldErrors})
}
