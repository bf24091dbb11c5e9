package handlers

import (
	"net/http"
	"time"

	"card-classifier-api/docs"
	"card-classifier-api/internal/config"
	"card-classifier-api/internal/middleware"
	"card-classifier-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// ClassifierPath is the protocol path of the classifier endpoint
const ClassifierPath = "/classifier_endpoint"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	CardService    services.CardService
	Health         HealthChecker
	Logger         *logrus.Logger
	RoutePrefix    string
	DeploymentMode string
	HTTP           config.HTTPConfig
}

// NewRouter builds a gin engine with the standard middleware and all routes
func NewRouter(cfg *RouterConfig) *gin.Engine {
	router := gin.New()
	SetupMiddleware(router, cfg)
	SetupRoutes(router, cfg)
	return router
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouterConfig) {
	cardHandler := NewCardHandler(cfg.CardService, cfg.Logger)
	healthHandler := NewHealthHandler(cfg.Health, cfg.DeploymentMode)

	// Swagger documentation
	docs.SwaggerInfo.BasePath = cfg.RoutePrefix
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", healthHandler.Root)

	api := router.Group(cfg.RoutePrefix)
	{
		api.POST(ClassifierPath, cardHandler.Classify)
		api.GET("/health", healthHandler.Health)
	}

	// The protocol path is also served without the prefix
	if cfg.RoutePrefix != "" {
		router.POST(ClassifierPath, cardHandler.Classify)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: MsgNotFound})
	})
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, cfg *RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}

	// The logger wraps everything after it so rejected requests are logged too
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.ErrorTracker(logger))
	router.Use(middleware.PerformanceMonitor(logger, time.Second))
	router.Use(middleware.SecurityHeaders("/swagger"))
	router.Use(middleware.RequestSizeLimit(cfg.HTTP.MaxBodyBytes))
	router.Use(middleware.RateLimiter(logger, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst))
}
