package dto

type IssueTokenDTO struct {
	SubjectID string `json:"subjectId" validate:"required,identifier"`
	// 1 for one-shot entry gates, 2 for entry plus exit. Defaults to 1.
	MaxConsumptions uint `json:"maxConsumptions" validate:"omitempty,min=1,max=2"`
}

type RedeemTokenDTO struct {
	CodeValue   string `json:"codeValue" validate:"required"`
	DisplayCode string `json:"displayCode" validate:"omitempty,display_code"`
	Intent      string `json:"intent" validate:"required,oneof=ENTER EXIT VERIFY"`
	ResourceID  string `json:"resourceId" validate:"omitempty,identifier"`
}
