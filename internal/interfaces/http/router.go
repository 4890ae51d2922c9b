// Package http exposes the evaluation API: single-compound evaluation,
// health, and metrics.  The batch report stays a CLI concern; the HTTP
// surface serves interactive lookups.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/molsift/molsift/internal/application/pipeline"
	"github.com/molsift/molsift/internal/infrastructure/monitoring/logging"
	"github.com/molsift/molsift/internal/infrastructure/monitoring/prometheus"
)

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(runner *pipeline.Runner, metrics *prometheus.Metrics, logger logging.Logger, mode string) *gin.Engine {
	gin.SetMode(mode)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	engine.GET("/healthz", handleHealth)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/compounds/evaluate", handleEvaluate(runner))
		v1.GET("/rules", handleRules(runner))
	}
	return engine
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger logs one line per request with latency and status.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		logger.Info("http request",
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("latency", time.Since(started)),
		)
	}
}
