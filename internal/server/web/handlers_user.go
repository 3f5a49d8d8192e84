package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/dmitrijs2005/referralhub/internal/server/qr"
	"github.com/dmitrijs2005/referralhub/internal/server/services"
	"github.com/gin-gonic/gin"
)

// accountGone handles a session whose account was deleted meanwhile.
func (s *Server) accountGone(c *gin.Context, err error) bool {
	if !errors.Is(err, common.ErrorNotFound) {
		return false
	}
	s.destroySession(c)
	c.Redirect(http.StatusFound, "/login")
	return true
}

// baseURL is the origin for share links: the configured public URL, or the
// request's own scheme and Host when none is set.
func (s *Server) baseURL(c *gin.Context) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}

func (s *Server) dashboard(c *gin.Context) {
	d, err := s.accounts.Dashboard(c.Request.Context(), currentSession(c).Email)
	if err != nil {
		if !s.accountGone(c, err) {
			s.internalError(c, "dashboard failed", err)
		}
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", newDashboardView(d, qr.ReferralURL(s.baseURL(c), d.Account.ReferralCode)))
}

func (s *Server) profile(c *gin.Context) {
	a, err := s.accounts.Profile(c.Request.Context(), currentSession(c).Email)
	if err != nil {
		if !s.accountGone(c, err) {
			s.internalError(c, "profile failed", err)
		}
		return
	}

	c.HTML(http.StatusOK, "profile.html", profileView{
		Name:    a.Name,
		Email:   a.Email,
		Phone:   a.Phone,
		Address: a.Address,
	})
}

func (s *Server) updateProfile(c *gin.Context) {
	in := services.ProfileInput{
		Name:    c.PostForm("name"),
		Phone:   c.PostForm("phone"),
		Address: c.PostForm("address"),
	}

	if err := s.accounts.UpdateProfile(c.Request.Context(), currentSession(c).Email, in); err != nil {
		if !s.accountGone(c, err) {
			s.internalError(c, "profile update failed", err)
		}
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

func (s *Server) qrForm(c *gin.Context) {
	c.HTML(http.StatusOK, "qr.html", nil)
}

func (s *Server) qrImage(c *gin.Context) {
	png, err := qr.Encode(c.PostForm("text"))
	if err != nil {
		if errors.Is(err, qr.ErrEmptyText) {
			s.renderMessage(c, http.StatusBadRequest, messageView{
				Title:    "Nothing to encode.",
				Link:     "/qr",
				LinkText: "Try again",
			})
			return
		}
		s.internalError(c, "qr encoding failed", err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) referralQR(c *gin.Context) {
	a, err := s.accounts.Profile(c.Request.Context(), currentSession(c).Email)
	if err != nil {
		if !s.accountGone(c, err) {
			s.internalError(c, "referral qr failed", err)
		}
		return
	}

	png, err := qr.Encode(qr.ReferralURL(s.baseURL(c), a.ReferralCode))
	if err != nil {
		s.internalError(c, "qr encoding failed", err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
