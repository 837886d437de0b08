package controller

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	apperrors "campuspass.io/application/appErrors"
	"campuspass.io/application/constants"
	"campuspass.io/application/controller/dto"
	"campuspass.io/application/interfaces"
	"campuspass.io/application/repository"
	"campuspass.io/application/utils"
	"campuspass.io/entities"
	"campuspass.io/infrastructure/biometric"
	"campuspass.io/infrastructure/biometric/types"
	"campuspass.io/infrastructure/database/repository/mongo"
	"campuspass.io/infrastructure/logger"
	server_response "campuspass.io/infrastructure/serverResponse"
	"campuspass.io/infrastructure/validator"
)

// BiometricController runs the enrollment and verification pipelines. The
// decision engine and template codec are injected at route wiring instead of
// living behind package singletons so tests can swap in fakes.
type BiometricController struct {
	Engine   *biometric.DecisionEngine
	Codec    *biometric.TemplateCodec
	Analyzer *biometric.QualityAnalyzer
}

// Enroll captures a new facial template for a subject. An accepted capture
// retires any previous active template before the fresh one is written.
func (bc *BiometricController) Enroll(ctx *interfaces.ApplicationContext[dto.EnrollBiometricDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	img, err := decodeCapture(ctx.Body.Image)
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "invalid image format", nil, nil)
		return
	}

	decision, err := bc.Engine.EvaluateEnrollment(img)
	if err != nil {
		apperrors.UnknownError(ctx.Ctx, err, nil)
		return
	}

	if !decision.Accepted {
		recordAttempt(ctx.Body.SubjectID, entities.VerificationModeEnroll, false, 0, decision.Reason)
		server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "enrollment rejected", decision, nil, &constants.RETAKE_CAPTURE)
		return
	}

	ciphertext, nonce, err := bc.Codec.Encode(decision.Embedding)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	template, err := persistTemplate(ctx.Body.SubjectID, ciphertext, nonce, decision)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	// the audit row follows the template write so an ACCEPT is never
	// recorded for an enrollment that produced nothing
	recordAttempt(ctx.Body.SubjectID, entities.VerificationModeEnroll, true, 0, nil)

	logger.Info("subject enrolled", logger.LoggerOptions{
		Key:  "subjectID",
		Data: ctx.Body.SubjectID,
	}, logger.LoggerOptions{
		Key:  "templateID",
		Data: template.ID,
	})
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "enrollment completed", decision, nil, nil)
}

// Verify compares a fresh capture against the subject's active template.
func (bc *BiometricController) Verify(ctx *interfaces.ApplicationContext[dto.VerifyBiometricDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	img, err := decodeCapture(ctx.Body.Image)
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "invalid image format", nil, nil)
		return
	}

	templateRepo := repository.TemplateRepo()
	template, err := templateRepo.FindOneByFilter(map[string]interface{}{
		"ownerID":   ctx.Body.SubjectID,
		"modality":  constants.FacialModality,
		"retiredAt": nil,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	var stored *biometric.StoredTemplate
	if template != nil {
		embedding, err := bc.Codec.Decode(template.EncryptedBlob, template.Nonce)
		if err != nil {
			apperrors.FatalServerError(ctx.Ctx, err)
			return
		}
		stored = &biometric.StoredTemplate{
			Embedding:    embedding,
			ModelVersion: template.ModelVersion,
		}
	}

	decision, err := bc.Engine.EvaluateVerification(img, stored, ctx.Body.Strict)
	if err != nil {
		apperrors.UnknownError(ctx.Ctx, err, nil)
		return
	}

	recordAttempt(ctx.Body.SubjectID, entities.VerificationModeVerify, decision.Accepted, decision.Confidence, decision.Reason)

	if !decision.Accepted {
		server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "verification rejected", decision, nil, nil)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "verification completed", decision, nil, nil)
}

// QualityCheck scores a capture without touching enrollment state. Capture
// UIs call this in a loop before submitting.
func (bc *BiometricController) QualityCheck(ctx *interfaces.ApplicationContext[dto.QualityCheckDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	img, err := decodeCapture(ctx.Body.Image)
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "invalid image format", nil, nil)
		return
	}

	report, err := bc.Analyzer.Analyze(img)
	if err != nil {
		apperrors.UnknownError(ctx.Ctx, err, nil)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "quality check completed", report, nil, nil)
}

// ListAttempts returns the most recent audit rows for a subject.
func (bc *BiometricController) ListAttempts(ctx *interfaces.ApplicationContext[any], subjectID string) {
	if err := validator.ValidatorInstance.ValidateValue(subjectID, "required,identifier"); err != nil {
		apperrors.ClientError(ctx.Ctx, err.Error(), nil, nil)
		return
	}

	var sort interface{} = map[string]interface{}{"timestamp": -1}
	attempts, err := repository.VerificationAttemptRepo().FindManyByFilter(map[string]interface{}{
		"subjectID": subjectID,
	}, mongo.FindOptions{
		Sort:  &sort,
		Limit: utils.GetInt64Pointer(100),
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "attempts fetched", attempts, nil, nil)
}

// persistence seams, swapped for fakes in tests
var (
	persistTemplate = persistEnrollmentTemplate
	recordAttempt   = writeAttempt
)

// persistEnrollmentTemplate retires the subject's active template and writes
// the fresh one. Old rows are retired, never mutated or deleted.
func persistEnrollmentTemplate(subjectID string, ciphertext []byte, nonce []byte, decision *types.EnrollmentDecision) (*entities.BiometricTemplate, error) {
	templateRepo := repository.TemplateRepo()
	_, err := templateRepo.UpdatePartialByFilter(map[string]interface{}{
		"ownerID":   subjectID,
		"modality":  constants.FacialModality,
		"retiredAt": nil,
	}, map[string]interface{}{
		"retiredAt": time.Now(),
	})
	if err != nil {
		return nil, err
	}

	return templateRepo.CreateOne(nil, entities.BiometricTemplate{
		OwnerID:               subjectID,
		Modality:              constants.FacialModality,
		EncryptedBlob:         ciphertext,
		Nonce:                 nonce,
		EmbeddingLength:       len(decision.Embedding),
		ModelVersion:          decision.ModelVersion,
		QualityScoreAtCapture: decision.Quality.Score,
		CapturedAt:            decision.DecidedAt,
	})
}

func decodeCapture(data string) (image.Image, error) {
	raw, err := utils.DecodeBase64Image(data)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

// writeAttempt appends the immutable audit row for a pipeline decision.
// Failures are logged, never surfaced - the decision already happened.
func writeAttempt(subjectID string, mode entities.VerificationMode, accepted bool, confidence float64, reason *types.ReasonCode) {
	outcome := entities.VerificationOutcomeReject
	if accepted {
		outcome = entities.VerificationOutcomeAccept
	}
	var reasonCode *string
	if reason != nil {
		reasonCode = utils.GetStringPointer(string(*reason))
	}
	_, err := repository.VerificationAttemptRepo().CreateOne(nil, entities.VerificationAttempt{
		SubjectID:  subjectID,
		Mode:       mode,
		Outcome:    outcome,
		Confidence: confidence,
		ReasonCode: reasonCode,
		Method:     entities.VerificationMethodFacial,
	})
	if err != nil {
		logger.Error("failed to write verification attempt", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "subjectID",
			Data: subjectID,
		})
	}
}
