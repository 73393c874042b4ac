package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// httpurl only checks the scheme prefix; the rest of the URL is used verbatim.
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
	})

	return v
}

// Struct validates s against its `validate` tags and returns an error whose
// message is readable by an operator or CLI user.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	return errors.New(ValidationError(err))
}

// Var validates a single value against a tag expression, naming it field in
// the error message.
func Var(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errorMsgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errorMsgs = append(errorMsgs, formatFieldError(field, e))
	}
	return errors.New(strings.Join(errorMsgs, ", "))
}

// ValidationError wraps the validators.ValidationErrors to provide a more user-friendly message.
func ValidationError(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	errorMsgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errorMsgs = append(errorMsgs, formatFieldError(e.Field(), e))
	}

	return strings.Join(errorMsgs, ", ")
}

func formatFieldError(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", field)
	case "required_if":
		return fmt.Sprintf("Field '%s' is required when %s", field, e.Param())
	case "httpurl":
		return fmt.Sprintf("Field '%s' must start with http:// or https://", field)
	case "hostname_port":
		return fmt.Sprintf("Field '%s' must be a host:port address", field)
	case "oneof":
		return fmt.Sprintf("Field '%s' must be one of [%s]", field, e.Param())
	case "max":
		return fmt.Sprintf("Field '%s' must be at most %s characters", field, e.Param())
	case "gt":
		return fmt.Sprintf("Field '%s' must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("Field '%s' must be greater than or equal to %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("Field '%s' must be less than or equal to %s", field, e.Param())
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", field, e.Tag())
	}
}
