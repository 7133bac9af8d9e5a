package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"AgriLink/internal/apperror"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("phone_in", validateIndianPhone)
}

// Validate runs struct tag validation and converts failures into the
// domain ValidationError so handlers map them to 400 uniformly.
func Validate(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// validateIndianPhone accepts 10-digit numbers with an optional +91 prefix.
func validateIndianPhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	matched, _ := regexp.MatchString(`^(\+91)?[6-9][0-9]{9}$`, phone)
	return matched
}

func formatValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "phone_in":
			messages = append(messages, fmt.Sprintf("%s is not a valid phone number", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s is not a valid email address", field))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "lte":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must have at least %s entries", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return apperror.NewValidationError(strings.Join(messages, "; "))
}
