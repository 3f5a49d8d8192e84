// Package web is the HTML front end: gin routes, session cookies and the
// rendered pages for users and the administrator.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/referralhub/internal/logging"
	"github.com/dmitrijs2005/referralhub/internal/server/auth"
	"github.com/dmitrijs2005/referralhub/internal/server/config"
	"github.com/dmitrijs2005/referralhub/internal/server/downloads"
	"github.com/dmitrijs2005/referralhub/internal/server/metrics"
	"github.com/dmitrijs2005/referralhub/internal/server/services"
	"github.com/dmitrijs2005/referralhub/internal/server/sessions"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Pinger reports whether the account store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Accounts  *services.AccountService
	Sessions  sessions.Store
	Admin     *auth.AdminGate
	Downloads downloads.Source
	Store     Pinger
	Metrics   *metrics.Metrics
}

type Server struct {
	address       string
	publicDir     string
	publicBaseURL string
	sessionSecret []byte
	sessionTTL    time.Duration

	accounts  *services.AccountService
	sessions  sessions.Store
	admin     *auth.AdminGate
	downloads downloads.Source
	store     Pinger
	metrics   *metrics.Metrics
	logger    logging.Logger

	engine *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, d Deps) (*Server, error) {
	s := &Server{
		address:       cfg.HTTPAddr,
		publicDir:     cfg.PublicDir,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		sessionSecret: []byte(cfg.SessionSecret),
		sessionTTL:    cfg.SessionTTL,
		accounts:      d.Accounts,
		sessions:      d.Sessions,
		admin:         d.Admin,
		downloads:     d.Downloads,
		store:         d.Store,
		metrics:       d.Metrics,
		logger:        l.With("module", "web"),
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s.engine = gin.New()
	s.engine.SetHTMLTemplate(tmpl)
	s.routes()

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
