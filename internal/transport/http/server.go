package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Aryan-982/omegle-server/internal/config"
	"github.com/Aryan-982/omegle-server/internal/core"
)

// Version is the build identifier reported by /version. Overridden at
// build time via -ldflags.
var Version = "dev"

// NewServer builds the outer HTTP server: a gin router carrying /health
// and /version, plus the raw WebSocket upgrade route at /ws that bridges
// into the core Hub.
func NewServer(hub core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)
	router.GET("/version", versionHandler)
	router.Any("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

func versionHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{"version": Version})
}
