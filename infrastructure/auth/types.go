package auth

type KioskClaimsData struct {
	KioskID   string
	Name      string
	ExpiresAt int64
	IssuedAt  int64
}
