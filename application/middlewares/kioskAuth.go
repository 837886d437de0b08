package middlewares

import (
	"os"
	"strings"

	apperrors "campuspass.io/application/appErrors"
	"campuspass.io/application/interfaces"
	"campuspass.io/application/repository"
	"campuspass.io/infrastructure/auth"
	"campuspass.io/infrastructure/logger"
	"github.com/golang-jwt/jwt/v4"
)

// KioskAuthenticationMiddleware admits only paired, active kiosks carrying a
// valid session token.
func KioskAuthenticationMiddleware(ctx *interfaces.ApplicationContext[any]) (*interfaces.ApplicationContext[any], bool) {
	authTokenHeaderPointer := ctx.GetHeader("Authorization")
	if authTokenHeaderPointer == nil || *authTokenHeaderPointer == "" {
		apperrors.AuthenticationError(ctx.Ctx, "provide an auth token")
		return nil, false
	}
	authTokenHeader := *authTokenHeaderPointer
	splitToken := strings.Split(authTokenHeader, " ")
	if len(splitToken) != 2 {
		apperrors.AuthenticationError(ctx.Ctx, "provide an auth token")
		return nil, false
	}
	validAccessToken, err := auth.DecodeAuthToken(splitToken[1])
	if err != nil {
		apperrors.AuthenticationError(ctx.Ctx, "this session has expired")
		return nil, false
	}
	authTokenClaims := validAccessToken.Claims.(jwt.MapClaims)
	if authTokenClaims["iss"] != os.Getenv("JWT_ISSUER") {
		logger.Warning("attempt to access kiosk surface with tampered jwt", logger.LoggerOptions{
			Key:  "token claims",
			Data: authTokenClaims,
		})
		apperrors.AuthenticationError(ctx.Ctx, "invalid access token used")
		return nil, false
	}

	kioskID, ok := authTokenClaims["kioskID"].(string)
	if !ok || kioskID == "" {
		apperrors.AuthenticationError(ctx.Ctx, "invalid access token used")
		return nil, false
	}
	kioskRepo := repository.KioskDeviceRepo()
	kiosk, err := kioskRepo.FindByID(kioskID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return nil, false
	}
	if kiosk == nil {
		apperrors.NotFoundError(ctx.Ctx, "this kiosk is no longer paired")
		return nil, false
	}
	if kiosk.Deactivated {
		apperrors.AuthenticationError(ctx.Ctx, "this kiosk has been deactivated. contact an administrator if this is a mistake")
		return nil, false
	}

	ctx.SetContextData("KioskID", kiosk.ID)
	ctx.SetContextData("KioskName", kiosk.Name)
	return ctx, true
}
