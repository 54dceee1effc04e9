package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v1.0"

// NewRouter builds the gin engine with logging, panic recovery and every API
// route mounted under /api/v1.0. It panics if the custom validation tags
// cannot be registered.
func NewRouter(monitor *MonitorHandler, books *BookHandler, logger *zap.Logger) *gin.Engine {
	if err := registerValidations(); err != nil {
		logger.Error("Failed to register request validations", zap.Error(err))
		panic(err)
	}

	router := gin.New()
	router.Use(LoggerMiddleware(logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": internalServerError})
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "frame-monitor"})
	})

	api := router.Group(apiPrefix)
	monitor.RegisterRoutes(api)
	books.RegisterRoutes(api)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "endpoint not found"})
	})
	return router
}

// LoggerMiddleware logs one line per request.
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("remote_addr", c.ClientIP()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}
