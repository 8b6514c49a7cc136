// Package http exposes the routing service over a gin router.
package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hupe1980/intentmesh/logging"
	"github.com/hupe1980/intentmesh/transport/http/handler"
)

// Options configures the router.
type Options struct {
	GinMode   string
	HideDebug bool
	Logger    logging.Logger
}

func NewRouter(svc handler.RoutingService, optFns ...func(o *Options)) *gin.Engine {
	opts := Options{GinMode: gin.ReleaseMode, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	gin.SetMode(opts.GinMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	healthHandler := handler.NewHealthHandler(time.Now())
	askHandler := handler.NewAskHandler(svc, opts.HideDebug, logger)
	conversationHandler := handler.NewConversationHandler(svc)

	router.GET("/healthz", healthHandler.Check)

	v1 := router.Group("/v1")
	v1.POST("/ask", askHandler.Ask)
	v1.GET("/conversations/:id/history", conversationHandler.History)
	v1.DELETE("/conversations/:id", conversationHandler.Reset)

	return router
}

// requestLogger replaces gin.Logger so access logs share the service logger.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http.request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
