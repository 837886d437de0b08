package infrastructure

import (
	"fmt"
	"net/http"
	"os"
	"time"

	apperrors "campuspass.io/application/appErrors"
	"campuspass.io/infrastructure/logger"
	middlewares "campuspass.io/infrastructure/middleware"
	ratelimit "campuspass.io/infrastructure/ratelimit"
	webRoutev1 "campuspass.io/infrastructure/routes/ginRouter/web/v1"
	server_response "campuspass.io/infrastructure/serverResponse"
	startup "campuspass.io/infrastructure/startUp"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type ginServer struct{}

func (s *ginServer) Start() {
	startup.StartServices()
	defer startup.CleanUpServices()

	server := gin.Default()
	origins := []string{}
	if os.Getenv("GIN_MODE") == "debug" {
		origins = append(origins, "http://localhost:5174")
	} else if os.Getenv("GIN_MODE") == "release" {
		origins = append(origins, "https://campuspass.io", "https://www.campuspass.io")
	}
	corsConfig := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Device-Id", "X-Admin-Key", "User-Agent"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	server.Use(cors.New(corsConfig))

	v1 := server.Group("/api")

	openV1 := v1.Group("/v1")
	openV1.Use(ratelimit.TokenBucketPerIP())
	{
		webRoutev1.AuthRouter(openV1)
	}

	routerV1 := v1.Group("/v1")
	routerV1.Use(middlewares.KioskAuthenticationMiddleware())
	{
		webRoutev1.BiometricRouter(routerV1)
		webRoutev1.TokenRouter(routerV1)
		webRoutev1.AttendanceRouter(routerV1)
	}

	server.GET("/ping", func(ctx *gin.Context) {
		server_response.Responder.Respond(ctx, http.StatusOK, "pong!", nil, nil, nil)
	})

	server.NoRoute(func(ctx *gin.Context) {
		apperrors.NotFoundError(ctx, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL))
	})

	gin_mode := os.Getenv("GIN_MODE")
	port := os.Getenv("PORT")
	if gin_mode == "debug" || gin_mode == "release" {
		logger.Info(fmt.Sprintf("Server starting on PORT %s", port))
		server.Run(fmt.Sprintf(":%s", port))
	} else {
		panic(fmt.Sprintf("invalid gin mode used - %s", gin_mode))
	}
}
