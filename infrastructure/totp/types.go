package totp

type RotatingCodeGeneratorType interface {
	GenerateSecret(subjectID string) (secretKey *string, url *string, err error)
	GenerateRotatingCode(secret string) (*string, error)
	ValidateRotatingCode(code string, secret string) bool
}
