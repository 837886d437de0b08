package controller

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"campuspass.io/application/controller/dto"
	"campuspass.io/application/interfaces"
	"campuspass.io/entities"
	"campuspass.io/infrastructure/biometric"
	"campuspass.io/infrastructure/biometric/types"
	"github.com/gin-gonic/gin"
)

const testTemplateKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func testBiometricController() *BiometricController {
	analyzer := biometric.NewQualityAnalyzer(biometric.DefaultQualityPolicy())
	key := testTemplateKey
	return &BiometricController{
		Engine: biometric.NewDecisionEngine(
			analyzer,
			biometric.NewBlockLumaExtractor(analyzer),
			biometric.NewTextureLivenessChecker(),
			biometric.NewMatcher(),
			biometric.DefaultDecisionPolicy(),
		),
		Codec:    biometric.NewTemplateCodec(&key),
		Analyzer: analyzer,
	}
}

// enrollableCapture renders a capture that clears every enrollment gate.
func enrollableCapture(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			luma := uint8(140)
			if x > 640/3 && x < 2*640/3 && y > 480/3 && y < 2*480/3 {
				switch (x*7 + y*13) % 3 {
				case 0:
					luma = 80
				case 1:
					luma = 140
				case 2:
					luma = 200
				}
			}
			img.SetGray(x, y, color.Gray{Y: luma})
		}
	}
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buffer.Bytes())
}

func enrollContext(t *testing.T, image string) (*interfaces.ApplicationContext[dto.EnrollBiometricDTO], *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	ginCtx, _ := gin.CreateTestContext(recorder)
	ginCtx.Request = httptest.NewRequest(http.MethodPost, "/biometric/enroll", nil)
	return &interfaces.ApplicationContext[dto.EnrollBiometricDTO]{
		Ctx: ginCtx,
		Body: &dto.EnrollBiometricDTO{
			SubjectID: "student-001",
			Image:     image,
		},
	}, recorder
}

func TestEnrollAuditFollowsTemplatePersistence(t *testing.T) {
	events := []string{}
	persistTemplate = func(subjectID string, ciphertext []byte, nonce []byte, decision *types.EnrollmentDecision) (*entities.BiometricTemplate, error) {
		events = append(events, "template")
		return &entities.BiometricTemplate{OwnerID: subjectID}, nil
	}
	recordAttempt = func(subjectID string, mode entities.VerificationMode, accepted bool, confidence float64, reason *types.ReasonCode) {
		events = append(events, "attempt")
		if !accepted {
			t.Fatal("expected an accepted audit row")
		}
	}
	defer func() {
		persistTemplate = persistEnrollmentTemplate
		recordAttempt = writeAttempt
	}()

	ctx, recorder := enrollContext(t, enrollableCapture(t))
	testBiometricController().Enroll(ctx)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusCreated)
	}
	if len(events) != 2 || events[0] != "template" || events[1] != "attempt" {
		t.Fatalf("expected the audit row after the template write, got %v", events)
	}
}

func TestEnrollSkipsAcceptAuditWhenPersistenceFails(t *testing.T) {
	attempts := 0
	persistTemplate = func(subjectID string, ciphertext []byte, nonce []byte, decision *types.EnrollmentDecision) (*entities.BiometricTemplate, error) {
		return nil, errors.New("write failed")
	}
	recordAttempt = func(subjectID string, mode entities.VerificationMode, accepted bool, confidence float64, reason *types.ReasonCode) {
		attempts++
	}
	defer func() {
		persistTemplate = persistEnrollmentTemplate
		recordAttempt = writeAttempt
	}()

	ctx, recorder := enrollContext(t, enrollableCapture(t))
	testBiometricController().Enroll(ctx)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusInternalServerError)
	}
	if attempts != 0 {
		t.Fatal("no audit row should be written for an enrollment that persisted nothing")
	}
}
