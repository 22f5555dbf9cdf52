package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Janikow/55Khat/internal/config"
	"github.com/Janikow/55Khat/internal/core"
	"github.com/Janikow/55Khat/internal/store"
)

// NewServer builds the HTTP server: health check, the WebSocket endpoint,
// and optional static chat UI assets.
func NewServer(hub *core.Hub, bans store.BanStore, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, bans, cfg, logger)))

	if cfg.StaticDir != "" {
		fileServer := stdhttp.FileServer(stdhttp.Dir(cfg.StaticDir))
		router.NoRoute(gin.WrapH(fileServer))
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
