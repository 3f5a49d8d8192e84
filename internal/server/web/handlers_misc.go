package web

import (
	"context"
	"errors"
	"net/http"
	"path"
	"time"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error(ctx, "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) downloadList(c *gin.Context) {
	files, err := s.downloads.List(c.Request.Context())
	if err != nil {
		s.internalError(c, "listing downloads failed", err)
		return
	}
	c.HTML(http.StatusOK, "downloads.html", downloadsView{Files: files})
}

func (s *Server) downloadFile(c *gin.Context) {
	name := c.Param("name")

	target, err := s.downloads.Resolve(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.renderMessage(c, http.StatusNotFound, messageView{Title: "File not found.", Link: "/downloads", LinkText: "Downloads"})
			return
		}
		s.internalError(c, "resolving download failed", err)
		return
	}

	if target.URL != "" {
		c.Redirect(http.StatusFound, target.URL)
		return
	}
	c.FileAttachment(target.Path, path.Base(name))
}
