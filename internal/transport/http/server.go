package http

import (
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/groupstats/internal/config"
)

// NewServer builds the read-only stats API server.
func NewServer(svc StatsService, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		logger.Warn().Err(err).Msg("failed to set trusted proxies")
	}
	router.Use(gin.Recovery(), RequestIDMiddleware(), LoggerMiddleware(logger))

	limiter := newRateLimiter(cfg.StatsPerMinute, time.Minute)
	stop := make(chan struct{})
	limiter.startReset(stop)

	handlers := NewStatsHandlers(svc, cfg, logger)

	router.GET("/health", healthHandler)
	api := router.Group("/api")
	api.GET("/groups", handlers.ListGroups)
	api.GET("/groups/:id/stats", RateLimitMiddleware(limiter), handlers.GroupStats)

	server := &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	server.RegisterOnShutdown(func() { close(stop) })
	return server
}

func healthHandler(c *gin.Context) {
	_, _ = fmt.Fprint(c.Writer, "ok")
}
