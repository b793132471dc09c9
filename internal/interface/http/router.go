package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avolkov/doorkeeper/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
//
// The registration endpoint dispatches on exactly three methods: PUT
// registers, HEAD and OPTIONS answer 200, anything else is 405. The origin
// guard runs before method dispatch so a disallowed origin never reaches a
// handler.
func NewRouter(cfg *config.Config, handler *RegistrationHandler, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		handler.metrics.middleware(),
		corsMiddleware(),
		errorHandlingMiddleware(logger),
		originGuard(cfg.Registry.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "Method not allowed")
	})
	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not found")
	})

	for _, path := range []string{"/", "/register"} {
		router.PUT(path, handler.Register)
		router.HEAD(path, handler.Ok)
		router.OPTIONS(path, handler.Ok)
	}
	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
