package validator

import "testing"

func TestIdentifierRule(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"plain id", "student-001", false},
		{"alphanumeric", "LAB42", false},
		{"underscores", "lecture_hall_9", false},
		{"empty", "", true},
		{"leading dash", "-student", true},
		{"path traversal", "../etc", true},
		{"mongo operator", "$where", true},
		{"too long", "a123456789012345678901234567890123456789012345678901234567890123456789", true},
	}

	validatorInstance := ValidatorInstance
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatorInstance.ValidateValue(tt.value, "required,identifier")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateValue(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestDisplayCodeRule(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"six digits", "042137", false},
		{"too short", "12345", true},
		{"too long", "1234567", true},
		{"letters", "12a456", true},
	}

	validatorInstance := ValidatorInstance
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatorInstance.ValidateValue(tt.value, "display_code")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateValue(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		SubjectID string `validate:"required,identifier"`
	}

	validatorInstance := ValidatorInstance
	if errs := validatorInstance.ValidateStruct(payload{SubjectID: "student-001"}); errs != nil {
		t.Fatalf("expected a valid payload, got %v", *errs)
	}
	if errs := validatorInstance.ValidateStruct(payload{}); errs == nil || len(*errs) == 0 {
		t.Fatal("expected validation errors for a missing subject id")
	}
}
