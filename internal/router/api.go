package router

import (
	"costlens/internal/handler"
	"costlens/internal/middleware"

	"github.com/gin-gonic/gin"
)

// APIRouter /api 底下所有資源
type APIRouter struct {
	rateLimit           *middleware.RateLimit
	decompress          *middleware.Decompress
	eventHandler        *handler.EventHandler
	quotaHandler        *handler.IngestQuotaHandler
	analyticsHandler    *handler.AnalyticsHandler
	pricingHandler      *handler.PricingHandler
	budgetHandler       *handler.BudgetHandler
	alertHandler        *handler.AlertHandler
	optimizationHandler *handler.OptimizationHandler
}

func NewAPIRouter(
	rateLimit *middleware.RateLimit,
	decompress *middleware.Decompress,
	eventHandler *handler.EventHandler,
	quotaHandler *handler.IngestQuotaHandler,
	analyticsHandler *handler.AnalyticsHandler,
	pricingHandler *handler.PricingHandler,
	budgetHandler *handler.BudgetHandler,
	alertHandler *handler.AlertHandler,
	optimizationHandler *handler.OptimizationHandler,
) *APIRouter {
	return &APIRouter{
		rateLimit:           rateLimit,
		decompress:          decompress,
		eventHandler:        eventHandler,
		quotaHandler:        quotaHandler,
		analyticsHandler:    analyticsHandler,
		pricingHandler:      pricingHandler,
		budgetHandler:       budgetHandler,
		alertHandler:        alertHandler,
		optimizationHandler: optimizationHandler,
	}
}

func (ar *APIRouter) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	logs := api.Group("/logs")
	{
		// 只有寫入路徑受限流保護
		logs.POST("", ar.rateLimit.Guard(), ar.decompress.Body(), ar.eventHandler.LogEvent)
		logs.POST("/bulk", ar.rateLimit.Guard(), ar.decompress.Body(), ar.eventHandler.BulkLogEvents)
		logs.GET("/rate-limit", ar.quotaHandler.Current)
		logs.DELETE("/rate-limit", ar.quotaHandler.Reset)
		logs.DELETE("/:id", ar.eventHandler.DeleteEvent)
		logs.DELETE("", ar.eventHandler.ClearEvents)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/dashboard", ar.analyticsHandler.Dashboard)
		analytics.GET("/logs", ar.analyticsHandler.Logs)
		analytics.GET("/cost-trends", ar.analyticsHandler.CostTrends)
		analytics.GET("/providers", ar.analyticsHandler.Providers)
		analytics.GET("/features", ar.analyticsHandler.Features)
	}

	pricing := api.Group("/pricing")
	{
		pricing.GET("", ar.pricingHandler.List)
		pricing.POST("", ar.pricingHandler.Create)
		pricing.GET("/:id", ar.pricingHandler.Get)
		pricing.PUT("/:id", ar.pricingHandler.Update)
		pricing.DELETE("/:id", ar.pricingHandler.Delete)
	}

	budgets := api.Group("/budgets")
	{
		budgets.GET("", ar.budgetHandler.List)
		budgets.POST("", ar.budgetHandler.Create)
		budgets.POST("/update-spend", ar.budgetHandler.UpdateSpend)
		budgets.PUT("/:id", ar.budgetHandler.Update)
		budgets.DELETE("/:id", ar.budgetHandler.Delete)
	}

	alerts := api.Group("/alerts")
	{
		alerts.GET("", ar.alertHandler.List)
		alerts.POST("/detect", ar.alertHandler.Detect)
		alerts.PUT("/:id/read", ar.alertHandler.MarkRead)
		alerts.PUT("/:id/resolve", ar.alertHandler.Resolve)
		alerts.DELETE("/:id", ar.alertHandler.Delete)
	}

	optimization := api.Group("/optimization")
	{
		optimization.GET("/suggestions", ar.optimizationHandler.Suggestions)
		optimization.GET("/suggestions/:type", ar.optimizationHandler.SuggestionsByType)
	}
}
