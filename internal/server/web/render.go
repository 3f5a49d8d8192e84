package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) renderMessage(c *gin.Context, status int, v messageView) {
	c.HTML(status, "message.html", v)
}

// internalError logs err against the request and renders a generic page.
func (s *Server) internalError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	s.logger.Error(c.Request.Context(), msg, "error", err)
	s.renderMessage(c, http.StatusInternalServerError, messageView{
		Title:    "Something went wrong.",
		Detail:   "Please try again later.",
		Link:     "/",
		LinkText: "Home",
	})
}
