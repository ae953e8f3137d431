package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/mediascout/api/handler"
	"github.com/use-agent/mediascout/api/middleware"
	"github.com/use-agent/mediascout/cache"
	"github.com/use-agent/mediascout/config"
)

// Deps are the services the routes call. Pool and Cache may be nil.
type Deps struct {
	Scraper   handler.Scraper
	Checker   handler.LinkChecker
	Sources   handler.SourceStore
	Cache     *cache.Cache
	Engines   []string
	Pool      handler.PagePool
	StartTime time.Time
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health stays outside auth so monitoring probes always work.
func NewRouter(cfg *config.Config, d Deps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(d.Engines, d.Pool, d.StartTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	sc := protected.Group("/scraper")
	sc.POST("/preview", handler.Preview(d.Scraper, d.Cache))
	sc.POST("/chapter-images", handler.ChapterImages(d.Scraper))
	sc.POST("/episode-video", handler.EpisodeVideo(d.Scraper))
	sc.POST("/chapter-text", handler.ChapterText(d.Scraper))
	sc.POST("/link-status", handler.LinkStatus(d.Scraper))
	sc.POST("/check-links", handler.CheckLinks(d.Checker))

	protected.GET("/sources", handler.ListSources(d.Sources))
	protected.POST("/sources", handler.CreateSource(d.Sources))
	protected.GET("/sources/:id", handler.GetSource(d.Sources))

	return r
}
