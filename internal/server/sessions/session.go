// Package sessions keeps per-browser state on the server side. The browser
// only holds a signed reference to the session id.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/referralhub/internal/server/services"
	"github.com/google/uuid"
)

// Session is what the server remembers about one browser.
type Session struct {
	ID    string          `json:"-"`
	Email string          `json:"email,omitempty"`
	Admin bool            `json:"admin,omitempty"`
	Draft *services.Draft `json:"draft,omitempty"`
}

// Store persists sessions with a sliding TTL. Get returns
// common.ErrorNotFound for unknown or expired ids.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

func newID() string {
	return uuid.NewString()
}
