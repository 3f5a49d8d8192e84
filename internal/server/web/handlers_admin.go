package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) adminPanel(c *gin.Context) {
	list, err := s.accounts.ListAccounts(c.Request.Context())
	if err != nil {
		s.internalError(c, "listing accounts failed", err)
		return
	}

	c.HTML(http.StatusOK, "admin.html", newAdminView(list))
}

// adminMutation runs op on the posted id and returns to the panel. Unknown
// ids are a silent no-op.
func (s *Server) adminMutation(op func(ctx context.Context, id string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.PostForm("id")
		if err := op(c.Request.Context(), id); err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				s.internalError(c, "admin action failed", err)
				return
			}
			s.logger.Warn(c.Request.Context(), "admin action on unknown account", "account_id", id)
		}
		c.Redirect(http.StatusFound, "/admin")
	}
}

func (s *Server) verifyPayment(c *gin.Context) { s.adminMutation(s.accounts.VerifyPayment)(c) }
func (s *Server) resetPassword(c *gin.Context) { s.adminMutation(s.accounts.ResetPassword)(c) }
func (s *Server) deleteUser(c *gin.Context)    { s.adminMutation(s.accounts.DeleteAccount)(c) }
