package dto

type RegisterKioskDTO struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Secret string `json:"secret" validate:"required,min=16"`
}

type PairKioskDTO struct {
	Name   string `json:"name" validate:"required"`
	Secret string `json:"secret" validate:"required"`
}
