package router

import (
	docs "costlens/cmd/docs"
	"costlens/config"
	"costlens/internal/middleware"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var ProviderSet = wire.NewSet(
	NewRouter,
	NewHealthRouter,
	NewAPIRouter,
)

// NewRouter 組裝 gin.Engine；middleware 順序：trace → logger → cors → recovery → response
func NewRouter(
	config *config.Configuration,
	traceEntry *middleware.TraceEntry,
	recovery *middleware.Recovery,
	cors *middleware.Cors,
	logger *middleware.Logger,
	responseMiddleware *middleware.Response,
	healthRouter *HealthRouter,
	apiRouter *APIRouter,
) *gin.Engine {
	gin.SetMode(ginMode(config.App.Env))

	router := gin.New()
	router.Use(
		traceEntry.Handler(),
		logger.LoggerHandler(),
		cors.CorsHandler(),
		recovery.ErrorHandler(),
		responseMiddleware.FormatHandler(),
	)

	registerSystemRoutes(router, config)
	healthRouter.RegisterHealthRoutes(router)
	apiRouter.RegisterRoutes(router)
	return router
}

func ginMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// /metrics、/swagger、/debug/pprof；皆在 skipPath 名單內
func registerSystemRoutes(router *gin.Engine, config *config.Configuration) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if config.App.SwaggerEnabled {
		router.GET("/swagger/*any", func(c *gin.Context) {
			docs.SwaggerInfo.Host = c.Request.Host
			if config.App.Env == "production" {
				docs.SwaggerInfo.Schemes = []string{"https"}
			}
		}, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if config.App.Env != "production" {
		pprof.Register(router)
	}
}
