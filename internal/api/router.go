package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/salespulse/internal/middleware"
)

// RouterOptions holds the HTTP-layer settings taken from configuration.
type RouterOptions struct {
	AllowedOrigins  []string      // CORS origins; empty or "*" allows any
	RateLimitPerMin int           // per-IP limit; 0 disables
	RequestTimeout  time.Duration // default 10s
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter, CORS).
//   - Bounds the storage-backed routes with RequestTimeout. /api/init and
//     /api/external call the feed, whose timeouts and retries bound them instead.
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures dashboard routes (/api).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}

	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(opts.RateLimitPerMin),
		cors.New(corsConfig(opts.AllowedOrigins)),
	)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API ──────────────────────────────────────
	api := router.Group("/api")
	{
		api.GET("/init", handler.Init)
		api.GET("/external", handler.External)
	}

	facets := api.Group("", middleware.Timeout(opts.RequestTimeout))
	{
		facets.GET("/combined", handler.Combined)
		facets.GET("/transactions", handler.Transactions)
		facets.GET("/statistics", handler.Statistics)
		facets.GET("/barchart", handler.BarChart)
		facets.GET("/piechart", handler.PieChart)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "OPTIONS"}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
