package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-intents/internal/infra/config"
	"github.com/yanqian/faq-intents/internal/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        newEngine(cfg, handler),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func newEngine(cfg *config.Config, handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	metrics.Register()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		metrics.Middleware(),
		corsMiddleware(cfg.HTTP.CORSOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1", rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger), authMiddleware(cfg.HTTP.Auth))
	{
		api.POST("/intents", handler.Assign)
		api.POST("/intents/export", handler.Export)
		api.GET("/intents/:corpus/latest", handler.Latest)
		api.GET("/intents/:corpus/assignments", handler.Assignments)
	}

	return router
}
