package routev1

import (
	apperrors "campuspass.io/application/appErrors"
	"campuspass.io/application/constants"
	"campuspass.io/application/controller"
	"campuspass.io/application/controller/dto"
	"campuspass.io/application/interfaces"
	"campuspass.io/infrastructure/attendance"
	"campuspass.io/infrastructure/database/connection/datastore"
	"campuspass.io/infrastructure/identitytoken"
	"campuspass.io/infrastructure/totp"
	"github.com/gin-gonic/gin"
)

func TokenRouter(router *gin.RouterGroup) {
	tokenController := &controller.TokenController{
		Tokens: identitytoken.NewService(
			identitytoken.NewMongoStore(datastore.IdentityTokenModel),
			&totp.PquernaRotatingCodeService{},
			constants.IdentityTokenTTL,
		),
		Attendance: attendance.NewService(
			attendance.NewMongoOccupancyStore(datastore.OccupancyRecordModel),
		),
	}

	tokenRouter := router.Group("/token")
	{
		tokenRouter.POST("/issue", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.IssueTokenDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			tokenController.Issue(&interfaces.ApplicationContext[dto.IssueTokenDTO]{
				Ctx:      ctx,
				Body:     &body,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			})
		})

		tokenRouter.GET("/display/:codeValue", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			tokenController.Display(&interfaces.ApplicationContext[any]{
				Ctx:      ctx,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			}, ctx.Param("codeValue"))
		})

		tokenRouter.POST("/redeem", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.RedeemTokenDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			tokenController.Redeem(&interfaces.ApplicationContext[dto.RedeemTokenDTO]{
				Ctx:      ctx,
				Body:     &body,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			})
		})
	}
}
