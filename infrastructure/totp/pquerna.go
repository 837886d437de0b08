package totp

import (
	"time"

	"campuspass.io/application/utils"
	"campuspass.io/infrastructure/logger"
	"github.com/pquerna/otp/totp"
)

// PquernaRotatingCodeService backs the 30 second rotating display code shown
// inside identity QR payloads. Rotation is replay resistance for shoulder
// surfing and screenshots only - token validity itself is decided by the
// server-side expiresAt, never by the rotation state.
type PquernaRotatingCodeService struct {
}

func (pq *PquernaRotatingCodeService) GenerateSecret(subjectID string) (secretKey *string, url *string, err error) {
	secret, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "CampusPass",
		AccountName: subjectID,
	})
	if err != nil {
		logger.Error("an error occured while generating rotating code secret", logger.LoggerOptions{
			Key:  "err",
			Data: err,
		})
		return nil, nil, err
	}
	return utils.GetStringPointer(secret.Secret()), utils.GetStringPointer(secret.URL()), nil
}

func (pq *PquernaRotatingCodeService) GenerateRotatingCode(secret string) (*string, error) {
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		logger.Error("an error occured while generating rotating code", logger.LoggerOptions{
			Key:  "err",
			Data: err,
		})
		return nil, err
	}
	return utils.GetStringPointer(code), err
}

func (pq *PquernaRotatingCodeService) ValidateRotatingCode(code string, secret string) bool {
	return totp.Validate(code, secret)
}
