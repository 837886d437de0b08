package dto

type EnrollBiometricDTO struct {
	SubjectID string `json:"subjectId" validate:"required,identifier"`
	Image     string `json:"image" validate:"required"` // base64 capture, optionally a data url
}

type VerifyBiometricDTO struct {
	SubjectID string `json:"subjectId" validate:"required,identifier"`
	Image     string `json:"image" validate:"required"`
	Strict    bool   `json:"strict"`
}

type QualityCheckDTO struct {
	Image string `json:"image" validate:"required"`
}
