package validator

func init() {
	validate.RegisterValidation("identifier", validateIdentifier)
	validate.RegisterValidation("display_code", validateDisplayCode)
}

type Validator struct{}

func (v *Validator) ValidateStruct(payload interface{}) *[]error {
	return validateStruct(payload)
}

func (v *Validator) ValidateValue(value any, rules string) error {
	return validateField(value, rules)
}

var ValidatorInstance = Validator{}
