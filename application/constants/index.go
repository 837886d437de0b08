package constants

import "time"

// campuspass response codes
// 4 digit codes the clients key remediation flows off
var (
	TOKEN_EXPIRED_CODE   uint = 4210 // prompt the holder to refresh their pass
	TOKEN_EXHAUSTED_CODE uint = 4220 // pass already used, direct to an operator
	TOKEN_NOT_FOUND_CODE uint = 4230 // unknown code, rescan or re-issue
	ALREADY_CHECKED_IN   uint = 4310
	NOT_CHECKED_IN       uint = 4320
	CAPACITY_EXCEEDED    uint = 4330
	RETAKE_CAPTURE       uint = 4410 // quality reject, client shows the issue list
)

const (
	IdentityTokenTTL      = 5 * time.Minute
	TokenSweepGracePeriod = 24 * time.Hour
	KioskSessionLifetime  = 12 * time.Hour
	FacialModality        = "FACIAL"
)

var SUPPORT_EMAIL = "idsupport@campuspass.io"
