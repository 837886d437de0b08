package routev1

import (
	apperrors "campuspass.io/application/appErrors"
	"campuspass.io/application/controller"
	"campuspass.io/application/controller/dto"
	"campuspass.io/application/interfaces"
	"campuspass.io/infrastructure/biometric"
	"github.com/gin-gonic/gin"
)

func BiometricRouter(router *gin.RouterGroup) {
	analyzer := biometric.NewQualityAnalyzer(biometric.DefaultQualityPolicy())
	biometricController := &controller.BiometricController{
		Engine: biometric.NewDecisionEngine(
			analyzer,
			biometric.NewBlockLumaExtractor(analyzer),
			biometric.NewTextureLivenessChecker(),
			biometric.NewMatcher(),
			biometric.DefaultDecisionPolicy(),
		),
		Codec:    biometric.NewTemplateCodec(nil),
		Analyzer: analyzer,
	}

	biometricRouter := router.Group("/biometric")
	{
		biometricRouter.POST("/enroll", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.EnrollBiometricDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			biometricController.Enroll(&interfaces.ApplicationContext[dto.EnrollBiometricDTO]{
				Ctx:      ctx,
				Body:     &body,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			})
		})

		biometricRouter.POST("/verify", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.VerifyBiometricDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			biometricController.Verify(&interfaces.ApplicationContext[dto.VerifyBiometricDTO]{
				Ctx:      ctx,
				Body:     &body,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			})
		})

		biometricRouter.POST("/quality-check", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.QualityCheckDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			biometricController.QualityCheck(&interfaces.ApplicationContext[dto.QualityCheckDTO]{
				Ctx:      ctx,
				Body:     &body,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			})
		})

		biometricRouter.GET("/attempts/:subjectId", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			biometricController.ListAttempts(&interfaces.ApplicationContext[any]{
				Ctx:      ctx,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			}, ctx.Param("subjectId"))
		})
	}
}
