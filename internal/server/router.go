// Package server exposes the dashboard views over HTTP.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KaramelBytes/bmireport/internal/dashboard"
)

// NewRouter configures the gin engine with middleware and routes.
func NewRouter(logger *zap.Logger, session *dashboard.Session) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := NewHandler(logger, session)

	r := gin.New()
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.GET("/dataset", h.Dataset)
	api.GET("/dataset.csv", h.DatasetCSV)
	api.GET("/options", h.Options)
	api.GET("/trends", h.Trends)
	api.GET("/groups", h.Groups)
	api.GET("/distribution/:year", h.Distribution)
	api.GET("/summary", h.Summary)
	api.GET("/report", h.Report)
	api.POST("/bmi", h.Calculate)

	return r
}

// zapLoggerMiddleware logs one line per request.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
