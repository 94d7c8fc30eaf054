package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"taskapp/internal/adapter/http/handler"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/core/telemetry"
	"taskapp/pkg/config"
	"taskapp/pkg/logger"
)

type RouterConfig struct {
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler

	// Metrics and MetricsHandler are optional.
	Metrics        *telemetry.AppMetrics
	MetricsHandler http.Handler

	Logger *logger.Logger
	Config *config.AppConfig
}

func SetupRouter(rc RouterConfig) *gin.Engine {
	cfg := rc.Config
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}

	log := rc.Logger
	if log == nil {
		log = logger.NewNop()
	}

	router := gin.New()

	router.Use(config.NewHTTPSEnforcer(cfg.EnforceHTTPS, log).HTTPSMiddleware())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	if cfg.RateLimitEnabled {
		router.Use(config.NewRateLimiter(cfg.RateLimitConfigs, log, rc.Metrics).RateLimitMiddleware())
	}

	if rc.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(rc.Metrics))
	}

	if rc.HealthHandler != nil {
		router.GET("/health", rc.HealthHandler.Health)
	}

	if rc.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(rc.MetricsHandler))
	}

	if rc.TaskHandler != nil {
		setupTaskRoutes(router, rc.TaskHandler)
	}

	return router
}

func setupTaskRoutes(router *gin.Engine, taskHandler *handler.TaskHandler) {
	tasks := router.Group("/tasks")
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/search", taskHandler.SearchTasks)
		tasks.GET("/stats", taskHandler.GetStats)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.POST("", taskHandler.CreateTask)
		tasks.PATCH("/:id", taskHandler.UpdateTask)
		tasks.POST("/:id/toggle", taskHandler.ToggleTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}
}
