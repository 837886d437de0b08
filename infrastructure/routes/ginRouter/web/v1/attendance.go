package routev1

import (
	apperrors "campuspass.io/application/appErrors"
	"campuspass.io/application/controller"
	"campuspass.io/application/controller/dto"
	"campuspass.io/application/interfaces"
	"campuspass.io/infrastructure/attendance"
	"campuspass.io/infrastructure/database/connection/datastore"
	"github.com/gin-gonic/gin"
)

func AttendanceRouter(router *gin.RouterGroup) {
	attendanceController := &controller.AttendanceController{
		Service: attendance.NewService(
			attendance.NewMongoOccupancyStore(datastore.OccupancyRecordModel),
		),
	}

	attendanceRouter := router.Group("/attendance")
	{
		attendanceRouter.POST("/enter", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.AttendanceEntryDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			attendanceController.Enter(&interfaces.ApplicationContext[dto.AttendanceEntryDTO]{
				Ctx:      ctx,
				Body:     &body,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			})
		})

		attendanceRouter.POST("/exit", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.AttendanceExitDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			attendanceController.Exit(&interfaces.ApplicationContext[dto.AttendanceExitDTO]{
				Ctx:      ctx,
				Body:     &body,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			})
		})

		attendanceRouter.POST("/resource", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.CreateResourceDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			attendanceController.CreateResource(&interfaces.ApplicationContext[dto.CreateResourceDTO]{
				Ctx:      ctx,
				Body:     &body,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			})
		})

		attendanceRouter.GET("/open/:resourceId", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			attendanceController.OpenCount(&interfaces.ApplicationContext[any]{
				Ctx:      ctx,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			}, ctx.Param("resourceId"))
		})
	}
}
