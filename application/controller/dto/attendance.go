package dto

type AttendanceEntryDTO struct {
	SubjectID  string `json:"subjectId" validate:"required,identifier"`
	ResourceID string `json:"resourceId" validate:"required,identifier"`
	Method     string `json:"method" validate:"omitempty,oneof=FACIAL TOKEN MANUAL FINGERPRINT"`
}

type AttendanceExitDTO struct {
	SubjectID  string `json:"subjectId" validate:"required,identifier"`
	ResourceID string `json:"resourceId" validate:"required,identifier"`
}

type CreateResourceDTO struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Kind        string `json:"kind" validate:"required,oneof=LECTURE FACILITY"`
	MaxCapacity *uint  `json:"maxCapacity" validate:"omitempty,min=1"`
}
