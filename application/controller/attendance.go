package controller

import (
	"errors"
	"net/http"

	apperrors "campuspass.io/application/appErrors"
	"campuspass.io/application/constants"
	"campuspass.io/application/controller/dto"
	"campuspass.io/application/interfaces"
	"campuspass.io/application/repository"
	"campuspass.io/entities"
	"campuspass.io/infrastructure/attendance"
	server_response "campuspass.io/infrastructure/serverResponse"
	"campuspass.io/infrastructure/validator"
)

// AttendanceController exposes the occupancy state machine for operator
// driven check-ins, resource management and reporting.
type AttendanceController struct {
	Service *attendance.Service
}

func (ac *AttendanceController) Enter(ctx *interfaces.ApplicationContext[dto.AttendanceEntryDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	resource, err := repository.ResourceRepo().FindByID(ctx.Body.ResourceID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if resource == nil {
		apperrors.NotFoundError(ctx.Ctx, "this resource does not exist")
		return
	}

	method := entities.VerificationMethod(ctx.Body.Method)
	if method == "" {
		method = entities.VerificationMethodManual
	}

	record, err := ac.Service.Enter(nil, ctx.Body.SubjectID, ctx.Body.ResourceID, method, resource.MaxCapacity)
	if err != nil {
		respondAttendanceError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "checked in", record, nil, nil)
}

func (ac *AttendanceController) Exit(ctx *interfaces.ApplicationContext[dto.AttendanceExitDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	record, err := ac.Service.Exit(nil, ctx.Body.SubjectID, ctx.Body.ResourceID)
	if err != nil {
		respondAttendanceError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "checked out", record, nil, nil)
}

func (ac *AttendanceController) OpenCount(ctx *interfaces.ApplicationContext[any], resourceID string) {
	if err := validator.ValidatorInstance.ValidateValue(resourceID, "required,identifier"); err != nil {
		apperrors.ClientError(ctx.Ctx, err.Error(), nil, nil)
		return
	}

	count, err := ac.Service.OpenCount(nil, resourceID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "open occupancy fetched", map[string]any{
		"resourceId": resourceID,
		"open":       count,
	}, nil, nil)
}

// CreateResource registers a lecture session or facility subjects can check
// in and out of.
func (ac *AttendanceController) CreateResource(ctx *interfaces.ApplicationContext[dto.CreateResourceDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	resource, err := repository.ResourceRepo().CreateOne(nil, entities.Resource{
		Name:        ctx.Body.Name,
		Kind:        entities.ResourceKind(ctx.Body.Kind),
		MaxCapacity: ctx.Body.MaxCapacity,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "resource created", resource, nil, nil)
}

func respondAttendanceError(ctx interface{}, err error) {
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		apperrors.ConflictError(ctx, "subject is already checked in here", &constants.ALREADY_CHECKED_IN)
	case errors.Is(err, attendance.ErrNotCheckedIn):
		apperrors.CustomError(ctx, "subject has no open check-in here", &constants.NOT_CHECKED_IN)
	case errors.Is(err, attendance.ErrCapacityExceeded):
		apperrors.ConflictError(ctx, "this resource is at capacity", &constants.CAPACITY_EXCEEDED)
	case errors.Is(err, attendance.ErrResourceNotFound):
		apperrors.NotFoundError(ctx, "this resource does not exist")
	default:
		apperrors.FatalServerError(ctx, err)
	}
}
