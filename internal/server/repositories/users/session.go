package users

import (
	"context"

	"github.com/dmitrijs2005/usersapp/internal/common"
	"github.com/dmitrijs2005/usersapp/internal/server/models"
	"github.com/dmitrijs2005/usersapp/internal/server/session"
)

// SessionRepository stores users in the calling client's session. The data
// is private to that client and disappears when the session cookie does.
type SessionRepository struct {
	listRepository
}

// NewSessionRepository binds to the session carried by ctx.
func NewSessionRepository(ctx context.Context) (*SessionRepository, error) {
	s, ok := session.FromContext(ctx)
	if !ok {
		return nil, common.ErrNoSession
	}
	return &SessionRepository{listRepository{store: sessionStore{s: s}}}, nil
}

type sessionStore struct {
	s *session.Session
}

func (st sessionStore) load(context.Context) ([]models.User, error) {
	return st.s.LoadUsers(), nil
}

func (st sessionStore) save(_ context.Context, users []models.User) error {
	st.s.SaveUsers(users)
	return nil
}
