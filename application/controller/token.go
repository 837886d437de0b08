package controller

import (
	"errors"
	"net/http"

	apperrors "campuspass.io/application/appErrors"
	"campuspass.io/application/constants"
	"campuspass.io/application/controller/dto"
	"campuspass.io/application/interfaces"
	"campuspass.io/application/repository"
	"campuspass.io/application/utils"
	"campuspass.io/entities"
	"campuspass.io/infrastructure/attendance"
	"campuspass.io/infrastructure/identitytoken"
	"campuspass.io/infrastructure/logger"
	server_response "campuspass.io/infrastructure/serverResponse"
	"campuspass.io/infrastructure/validator"
)

// TokenController issues and redeems identity tokens. Redemption with an
// ENTER or EXIT intent drives the attendance state machine in the same
// request so a kiosk scan is a single round trip.
type TokenController struct {
	Tokens     *identitytoken.Service
	Attendance *attendance.Service
}

func (tc *TokenController) Issue(ctx *interfaces.ApplicationContext[dto.IssueTokenDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	issued, err := tc.Tokens.Issue(nil, ctx.Body.SubjectID, ctx.Body.MaxConsumptions)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "token issued", issued, nil, nil)
}

// Display returns the current rotating code for a live token so the client
// can refresh its QR every rotation period without re-issuing.
func (tc *TokenController) Display(ctx *interfaces.ApplicationContext[any], codeValue string) {
	if err := validator.ValidatorInstance.ValidateValue(codeValue, "required,identifier"); err != nil {
		apperrors.ClientError(ctx.Ctx, err.Error(), nil, nil)
		return
	}

	displayCode, err := tc.Tokens.DisplayCode(nil, codeValue)
	if err != nil {
		switch {
		case errors.Is(err, identitytoken.ErrTokenExpired):
			apperrors.CustomError(ctx.Ctx, "this pass has expired", &constants.TOKEN_EXPIRED_CODE)
		case errors.Is(err, identitytoken.ErrTokenNotFound):
			apperrors.CustomError(ctx.Ctx, "unknown pass code", &constants.TOKEN_NOT_FOUND_CODE)
		default:
			apperrors.FatalServerError(ctx.Ctx, err)
		}
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "display code fetched", map[string]any{
		"codeValue":   codeValue,
		"displayCode": *displayCode,
	}, nil, nil)
}

func (tc *TokenController) Redeem(ctx *interfaces.ApplicationContext[dto.RedeemTokenDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	if ctx.Body.Intent != "VERIFY" && ctx.Body.ResourceID == "" {
		apperrors.ClientError(ctx.Ctx, "resourceId is required for ENTER and EXIT intents", nil, nil)
		return
	}

	token, err := tc.Tokens.Redeem(nil, ctx.Body.CodeValue, ctx.Body.DisplayCode)
	if err != nil {
		writeTokenAttempt("", false, redeemReason(err))
		switch {
		case errors.Is(err, identitytoken.ErrTokenExpired):
			apperrors.CustomError(ctx.Ctx, "this pass has expired", &constants.TOKEN_EXPIRED_CODE)
		case errors.Is(err, identitytoken.ErrTokenExhausted):
			apperrors.CustomError(ctx.Ctx, "this pass has already been used", &constants.TOKEN_EXHAUSTED_CODE)
		case errors.Is(err, identitytoken.ErrTokenNotFound):
			apperrors.CustomError(ctx.Ctx, "unknown pass code", &constants.TOKEN_NOT_FOUND_CODE)
		default:
			apperrors.FatalServerError(ctx.Ctx, err)
		}
		return
	}

	var record *entities.OccupancyRecord
	switch ctx.Body.Intent {
	case "ENTER":
		record, err = tc.enter(token.SubjectID, ctx.Body.ResourceID)
	case "EXIT":
		record, err = tc.Attendance.Exit(nil, token.SubjectID, ctx.Body.ResourceID)
	}
	if err != nil {
		writeTokenAttempt(token.SubjectID, false, redeemReason(err))
		respondAttendanceError(ctx.Ctx, err)
		return
	}

	writeTokenAttempt(token.SubjectID, true, nil)
	logger.Info("token redeemed", logger.LoggerOptions{
		Key:  "subjectID",
		Data: token.SubjectID,
	}, logger.LoggerOptions{
		Key:  "intent",
		Data: ctx.Body.Intent,
	})
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "token redeemed", map[string]any{
		"subjectId":       token.SubjectID,
		"occupancyRecord": record,
	}, nil, nil)
}

func (tc *TokenController) enter(subjectID string, resourceID string) (*entities.OccupancyRecord, error) {
	resource, err := repository.ResourceRepo().FindByID(resourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, attendance.ErrResourceNotFound
	}
	return tc.Attendance.Enter(nil, subjectID, resourceID, entities.VerificationMethodToken, resource.MaxCapacity)
}

func redeemReason(err error) *string {
	switch {
	case errors.Is(err, identitytoken.ErrTokenExpired):
		return utils.GetStringPointer("TOKEN_EXPIRED")
	case errors.Is(err, identitytoken.ErrTokenExhausted):
		return utils.GetStringPointer("TOKEN_EXHAUSTED")
	case errors.Is(err, identitytoken.ErrTokenNotFound):
		return utils.GetStringPointer("TOKEN_NOT_FOUND")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		return utils.GetStringPointer("ALREADY_CHECKED_IN")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		return utils.GetStringPointer("NOT_CHECKED_IN")
	case errors.Is(err, attendance.ErrCapacityExceeded):
		return utils.GetStringPointer("CAPACITY_EXCEEDED")
	case errors.Is(err, attendance.ErrResourceNotFound):
		return utils.GetStringPointer("RESOURCE_NOT_FOUND")
	}
	return nil
}

func writeTokenAttempt(subjectID string, accepted bool, reasonCode *string) {
	if subjectID == "" {
		return
	}
	outcome := entities.VerificationOutcomeReject
	if accepted {
		outcome = entities.VerificationOutcomeAccept
	}
	_, err := repository.VerificationAttemptRepo().CreateOne(nil, entities.VerificationAttempt{
		SubjectID:  subjectID,
		Mode:       entities.VerificationModeVerify,
		Outcome:    outcome,
		ReasonCode: reasonCode,
		Method:     entities.VerificationMethodToken,
	})
	if err != nil {
		logger.Error("failed to write token redemption attempt", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "subjectID",
			Data: subjectID,
		})
	}
}
