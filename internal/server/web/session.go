package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/dmitrijs2005/referralhub/internal/server/auth"
	"github.com/dmitrijs2005/referralhub/internal/server/sessions"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// loadSession resolves the session cookie. A missing, forged or expired
// cookie simply leaves the request anonymous.
func (s *Server) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(common.SessionCookieName); err == nil && token != "" {
			if sess := s.lookupSession(c, token); sess != nil {
				c.Set(sessionKey, sess)
			}
		}
		c.Next()
	}
}

func (s *Server) lookupSession(c *gin.Context, token string) *sessions.Session {
	ctx := c.Request.Context()

	id, err := auth.GetSessionIDFromToken(token, s.sessionSecret)
	if err != nil {
		s.logger.Debug(ctx, "session cookie rejected", "error", err)
		return nil
	}

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "session lookup failed", "error", err)
		}
		return nil
	}
	return sess
}

func currentSession(c *gin.Context) *sessions.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*sessions.Session)
	return sess
}

// startSession issues a new session id carrying over the current session's
// state, applies mutate and drops the old id.
func (s *Server) startSession(c *gin.Context, mutate func(*sessions.Session)) error {
	ctx := c.Request.Context()

	fresh, err := s.sessions.Create(ctx)
	if err != nil {
		return err
	}

	if old := currentSession(c); old != nil {
		fresh.Email, fresh.Admin, fresh.Draft = old.Email, old.Admin, old.Draft
		if err := s.sessions.Delete(ctx, old.ID); err != nil {
			s.logger.Warn(ctx, "could not drop old session", "error", err)
		}
	}

	mutate(fresh)
	c.Set(sessionKey, fresh)
	return s.saveSession(c, fresh)
}

// updateSession mutates the current session, creating one if needed.
func (s *Server) updateSession(c *gin.Context, mutate func(*sessions.Session)) error {
	sess := currentSession(c)
	if sess == nil {
		return s.startSession(c, mutate)
	}
	mutate(sess)
	return s.saveSession(c, sess)
}

func (s *Server) saveSession(c *gin.Context, sess *sessions.Session) error {
	if err := s.sessions.Save(c.Request.Context(), sess); err != nil {
		return err
	}

	token, err := auth.GenerateToken(sess.ID, s.sessionSecret, s.sessionTTL)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, token, int(s.sessionTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
	return nil
}

func (s *Server) destroySession(c *gin.Context) {
	if sess := currentSession(c); sess != nil {
		if err := s.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
			s.logger.Warn(c.Request.Context(), "could not delete session", "error", err)
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", c.Request.TLS != nil, true)
}
