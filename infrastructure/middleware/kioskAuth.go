package middlewares

import (
	"campuspass.io/application/interfaces"
	"campuspass.io/application/middlewares"
	"github.com/gin-gonic/gin"
)

func KioskAuthenticationMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		appContext, next := middlewares.KioskAuthenticationMiddleware(&interfaces.ApplicationContext[any]{
			Ctx:      ctx,
			Keys:     ctx.Keys,
			Header:   ctx.Request.Header,
			DeviceID: ctx.Request.Header.Get("X-Device-Id"),
		})
		if next {
			ctx.Set("AppContext", appContext)
			ctx.Next()
		}
	}
}
