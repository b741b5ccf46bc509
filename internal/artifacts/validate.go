package artifacts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists every field rule an artifact payload broke
type ValidationError struct {
	Artifact string
	Fields   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("artifact %s invalid: %s", e.Artifact, strings.Join(e.Fields, "; "))
}

// validateArtifact runs struct validation and flattens the result
func validateArtifact(v *validator.Validate, name string, payload interface{}) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %s: %w", name, err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, describe(fe))
	}

	return &ValidationError{Artifact: name, Fields: fields}
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
