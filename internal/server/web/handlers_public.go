package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/dmitrijs2005/referralhub/internal/server/metrics"
	"github.com/dmitrijs2005/referralhub/internal/server/models"
	"github.com/dmitrijs2005/referralhub/internal/server/services"
	"github.com/dmitrijs2005/referralhub/internal/server/sessions"
	"github.com/gin-gonic/gin"
)

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

func (s *Server) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register_step1.html", registerView{
		Referrer: strings.TrimSpace(c.Query(common.ReferralQueryParam)),
	})
}

// registerRejected re-renders step 1 for input the service refused. It
// reports false for errors that are not the user's fault.
func (s *Server) registerRejected(c *gin.Context, in services.RegisterInput, err error) bool {
	v := registerView{Name: in.Name, Email: in.Email, Referrer: in.ReferrerCode}

	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		v.Message = "Please correct the highlighted fields."
		v.Errors = ve.Fields
		c.HTML(http.StatusBadRequest, "register_step1.html", v)
	case errors.Is(err, common.ErrValidation):
		v.Message = "Please fill in the registration form."
		c.HTML(http.StatusBadRequest, "register_step1.html", v)
	case errors.Is(err, common.ErrDuplicateEmail):
		v.Message = "This email is already registered."
		c.HTML(http.StatusConflict, "register_step1.html", v)
	default:
		return false
	}
	return true
}

func (s *Server) registerStep1(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		s.registerRejected(c, in, common.ErrValidation)
		return
	}
	in.TransactionID = ""

	draft, err := s.accounts.Prepare(c.Request.Context(), in)
	if err != nil {
		if !s.registerRejected(c, in, err) {
			s.internalError(c, "registration step 1 failed", err)
		}
		return
	}

	if err := s.updateSession(c, func(sess *sessions.Session) { sess.Draft = draft }); err != nil {
		s.internalError(c, "could not store registration draft", err)
		return
	}

	c.HTML(http.StatusOK, "register_step2.html", registerView{
		Name:     draft.Name,
		Email:    draft.Email,
		Referrer: draft.ReferrerCode,
	})
}

// registerStep2 finishes the registration from the session draft. Without
// a draft the posted fields are registered directly.
func (s *Server) registerStep2(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		s.registerRejected(c, in, common.ErrValidation)
		return
	}

	ctx := c.Request.Context()

	var (
		account *models.Account
		err     error
	)
	if sess := currentSession(c); sess != nil && sess.Draft != nil {
		account, err = s.accounts.Complete(ctx, sess.Draft, in.TransactionID)
		if err == nil {
			if serr := s.updateSession(c, func(sess *sessions.Session) { sess.Draft = nil }); serr != nil {
				s.logger.Warn(ctx, "could not clear registration draft", "error", serr)
			}
		}
	} else {
		account, err = s.accounts.Register(ctx, in)
	}

	if err != nil {
		if !s.registerRejected(c, in, err) {
			s.internalError(c, "registration step 2 failed", err)
		}
		return
	}

	c.HTML(http.StatusOK, "success.html", successView{Name: account.Name, ReferralCode: account.ReferralCode})
}

func (s *Server) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

func (s *Server) login(c *gin.Context) {
	account, err := s.accounts.Authenticate(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.renderMessage(c, http.StatusUnauthorized, messageView{
				Title:    "Invalid login details.",
				Link:     "/login",
				LinkText: "Try again",
			})
			return
		}
		s.internalError(c, "login failed", err)
		return
	}

	if err := s.startSession(c, func(sess *sessions.Session) {
		sess.Email = account.Email
		sess.Draft = nil
	}); err != nil {
		s.internalError(c, "could not start session", err)
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) logout(c *gin.Context) {
	s.destroySession(c)
	c.Redirect(http.StatusFound, "/login")
}

func (s *Server) adminLoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_login.html", nil)
}

func (s *Server) adminLogin(c *gin.Context) {
	if !s.admin.Check(c.PostForm("password")) {
		s.metrics.FailedLogin(metrics.LoginAdmin)
		s.renderMessage(c, http.StatusUnauthorized, messageView{
			Title:    "Incorrect admin password.",
			Link:     "/admin-login",
			LinkText: "Try again",
		})
		return
	}

	if err := s.startSession(c, func(sess *sessions.Session) { sess.Admin = true }); err != nil {
		s.internalError(c, "could not start admin session", err)
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

func (s *Server) adminLogout(c *gin.Context) {
	s.destroySession(c)
	c.Redirect(http.StatusFound, "/admin-login")
}
