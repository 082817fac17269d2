// Package api exposes the profiling engine over HTTP: a gin engine with
// request-ID, CORS, body-size and rate-limit middleware, plus a chi-based
// ops sidecar for pprof.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ptengelmann/ProfilanIQ/app"
	"github.com/ptengelmann/ProfilanIQ/internal"
	"github.com/ptengelmann/ProfilanIQ/internal/config"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server is the HTTP front door.
type Server struct {
	router    *gin.Engine
	config    *config.Config
	profiles  *app.ProfileService
	compares  *app.CompareService
	logger    *internal.Logger
	limiter   *rateLimiter
	startedAt time.Time
}

// NewServer wires routes and middleware around the two services.
func NewServer(cfg *config.Config, profiles *app.ProfileService, compares *app.CompareService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:    gin.New(),
		config:    cfg,
		profiles:  profiles,
		compares:  compares,
		logger:    logger.Tagged("API"),
		limiter:   newRateLimiter(cfg.Limits.RateLimitMax, cfg.Limits.RateLimitWindow),
		startedAt: time.Now(),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(s.requestID())
	s.router.Use(cors.New(s.corsConfig()))
	s.router.Use(s.bodyLimit())

	api := s.router.Group("/api")
	api.Use(s.rateLimit())
	{
		api.GET("/health", s.handleHealth)
		api.GET("/profile", s.handleProfileUsage)
		api.POST("/profile", s.handleProfile)
		api.POST("/compare", s.handleCompare)
		api.GET("/docs", s.handleDocs)
	}

	return s
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	if s.config.Server.Environment == "production" {
		cfg.AllowOrigins = []string{"https://profilaniq.com"}
	} else {
		cfg.AllowAllOrigins = true
	}
	return cfg
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	addr := ":" + s.config.Server.Port
	s.logger.Info("listening on %s (%s)", addr, s.config.Server.Environment)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
