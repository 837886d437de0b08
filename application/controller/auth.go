package controller

import (
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	apperrors "campuspass.io/application/appErrors"
	"campuspass.io/application/constants"
	"campuspass.io/application/controller/dto"
	"campuspass.io/application/interfaces"
	"campuspass.io/application/repository"
	"campuspass.io/entities"
	"campuspass.io/infrastructure/auth"
	"campuspass.io/infrastructure/cryptography"
	"campuspass.io/infrastructure/logger"
	server_response "campuspass.io/infrastructure/serverResponse"
	"campuspass.io/infrastructure/validator"
)

// RegisterKiosk provisions a new kiosk device. Guarded by the admin API key
// rather than a kiosk session - a kiosk cannot mint siblings.
func RegisterKiosk(ctx *interfaces.ApplicationContext[dto.RegisterKioskDTO]) {
	adminKey := ctx.GetHeader("X-Admin-Key")
	if adminKey == nil || subtle.ConstantTimeCompare([]byte(*adminKey), []byte(os.Getenv("ADMIN_API_KEY"))) != 1 {
		apperrors.AuthenticationError(ctx.Ctx, "unauthorized access")
		return
	}

	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	kioskRepo := repository.KioskDeviceRepo()
	existing, err := kioskRepo.FindOneByFilter(map[string]interface{}{
		"name": ctx.Body.Name,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if existing != nil {
		apperrors.EntityAlreadyExistsError(ctx.Ctx, "a kiosk with this name already exists")
		return
	}

	hash, err := cryptography.CryptoHasher.HashString(ctx.Body.Secret, nil)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	kiosk, err := kioskRepo.CreateOne(nil, entities.KioskDevice{
		Name:       ctx.Body.Name,
		SecretHash: string(hash),
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	logger.Info("kiosk registered", logger.LoggerOptions{
		Key:  "kioskID",
		Data: kiosk.ID,
	})
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "kiosk registered", map[string]any{
		"id":   kiosk.ID,
		"name": kiosk.Name,
	}, nil, nil)
}

// PairKiosk exchanges the kiosk pairing secret for a session token.
func PairKiosk(ctx *interfaces.ApplicationContext[dto.PairKioskDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	kioskRepo := repository.KioskDeviceRepo()
	kiosk, err := kioskRepo.FindOneByFilter(map[string]interface{}{
		"name": ctx.Body.Name,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if kiosk == nil {
		apperrors.AuthenticationError(ctx.Ctx, "invalid kiosk credentials")
		return
	}
	if kiosk.Deactivated {
		apperrors.AuthenticationError(ctx.Ctx, "this kiosk has been deactivated. contact an administrator if this is a mistake")
		return
	}
	if !cryptography.CryptoHasher.VerifyHashData(kiosk.SecretHash, ctx.Body.Secret) {
		logger.Warning("kiosk pairing attempt with wrong secret", logger.LoggerOptions{
			Key:  "kioskID",
			Data: kiosk.ID,
		})
		apperrors.AuthenticationError(ctx.Ctx, "invalid kiosk credentials")
		return
	}

	now := time.Now()
	expiresAt := now.Add(constants.KioskSessionLifetime)
	token, err := auth.GenerateKioskToken(auth.KioskClaimsData{
		KioskID:   kiosk.ID,
		Name:      kiosk.Name,
		ExpiresAt: expiresAt.Unix(),
		IssuedAt:  now.Unix(),
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	_, err = kioskRepo.UpdatePartialByFilter(map[string]interface{}{
		"_id": kiosk.ID,
	}, map[string]interface{}{
		"lastSeenAt": now,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "kiosk paired", map[string]any{
		"token":     token,
		"expiresAt": expiresAt,
	}, nil, nil)
}
