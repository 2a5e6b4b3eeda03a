package ui

import (
	"io/fs"
	"net/http"

	"conflictdash/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures request tracing, recovery and static assets
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(s.logger))

	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		s.logger.Error("[Static] Error creating static filesystem: %v", err)
		return
	}
	s.logger.Debug("[Static] Serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
}
