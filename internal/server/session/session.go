// Package session keeps per-client state (session-backed users, flash
// notices, the logged-in name) in a signed cookie and hands it to request
// handlers through the request context.
package session

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/usersapp/internal/server/models"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the state carried between requests of one client. It is not
// safe for concurrent use; each request owns its own copy.
type Session struct {
	Users   []models.User `json:"users,omitempty"`
	Flashes []Flash       `json:"flashes,omitempty"`
	Login   string        `json:"login,omitempty"`

	modified bool
}

func New() *Session {
	return &Session{}
}

// Modified reports whether the session changed since it was loaded.
func (s *Session) Modified() bool {
	return s.modified
}

// LoadUsers returns a copy of the session's users.
func (s *Session) LoadUsers() []models.User {
	return slices.Clone(s.Users)
}

func (s *Session) SaveUsers(users []models.User) {
	s.Users = users
	s.modified = true
}

func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	s.modified = true
}

// PopFlashes returns the pending flashes and clears them.
func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	f := s.Flashes
	s.Flashes = nil
	s.modified = true
	return f
}

func (s *Session) SetLogin(name string) {
	if s.Login == name {
		return
	}
	s.Login = name
	s.modified = true
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
