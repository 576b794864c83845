package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/prodlookup/api/handler"
	"github.com/use-agent/prodlookup/api/middleware"
	"github.com/use-agent/prodlookup/config"
	"github.com/use-agent/prodlookup/crawler"
	"github.com/use-agent/prodlookup/search"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(sc *search.Client, cr *crawler.Crawler, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Product search
	protected.POST("/search", handler.Search(sc, cr, cfg.Webhook))

	return r
}
