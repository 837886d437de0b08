package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	identifierRegex  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)
	displayCodeRegex = regexp.MustCompile(`^[0-9]{6}$`)
)

// subject and resource identifiers come from the student-records system and
// are constrained to a safe charset before they hit any filter
func validateIdentifier(fl validator.FieldLevel) bool {
	return identifierRegex.MatchString(fl.Field().String())
}

func validateDisplayCode(fl validator.FieldLevel) bool {
	return displayCodeRegex.MatchString(fl.Field().String())
}

func validateStruct(payload interface{}) *[]error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	errs := []error{}
	if invalid, ok := err.(*validator.InvalidValidationError); ok {
		errs = append(errs, invalid)
		return &errs
	}
	for _, fieldErr := range err.(validator.ValidationErrors) {
		errs = append(errs, fmt.Errorf("%s failed validation on the %s rule", fieldErr.Field(), fieldErr.Tag()))
	}
	return &errs
}

func validateField(value any, rules string) error {
	return validate.Var(value, rules)
}
