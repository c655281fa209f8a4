package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/usersapp/internal/common"
	"github.com/dmitrijs2005/usersapp/internal/server/session"
	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", nil)
}

func (s *HTTPServer) courseShow(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "Course id: %s", chi.URLParam(r, "id"))
}

type loginPage struct {
	Name  string
	Error string
}

func (s *HTTPServer) loginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", loginPage{})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")
	password := r.PostFormValue("password")

	entry, ok := s.creds.Verify(name, password)
	if !ok {
		s.logger.Warn(r.Context(), "failed login", "name", name)
		s.render(w, r, http.StatusUnauthorized, "login", loginPage{Name: name, Error: "Invalid name or password"})
		return
	}

	if sess, ok := session.FromContext(r.Context()); ok {
		sess.SetLogin(entry.Name)
	}
	s.logger.Info(r.Context(), "login", "name", entry.Name)
	redirect(w, r, "/", common.FlashSuccess, "Welcome, "+entry.Name)
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		sess.SetLogin("")
	}
	redirect(w, r, "/", common.FlashSuccess, "Logged out")
}

func (s *HTTPServer) healthz(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, map[string]any{"ok": true}
	if err := s.repos.Ping(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err.Error())
		status, body = http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
