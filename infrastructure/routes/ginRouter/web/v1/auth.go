package routev1

import (
	apperrors "campuspass.io/application/appErrors"
	"campuspass.io/application/controller"
	"campuspass.io/application/controller/dto"
	"campuspass.io/application/interfaces"
	"github.com/gin-gonic/gin"
)

// AuthRouter mounts the unauthenticated kiosk pairing surface.
func AuthRouter(router *gin.RouterGroup) {
	authRouter := router.Group("/auth")
	{
		authRouter.POST("/kiosk", func(ctx *gin.Context) {
			var body dto.RegisterKioskDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.RegisterKiosk(&interfaces.ApplicationContext[dto.RegisterKioskDTO]{
				Ctx:    ctx,
				Body:   &body,
				Header: ctx.Request.Header,
			})
		})

		authRouter.POST("/kiosk/pair", func(ctx *gin.Context) {
			var body dto.PairKioskDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.PairKiosk(&interfaces.ApplicationContext[dto.PairKioskDTO]{
				Ctx:    ctx,
				Body:   &body,
				Header: ctx.Request.Header,
			})
		})
	}
}
