package web

import (
	"net/http"

	"github.com/dmitrijs2005/usersapp/internal/common"
	"github.com/dmitrijs2005/usersapp/internal/server/models"
	"github.com/dmitrijs2005/usersapp/internal/server/repositories/users"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// newID is a seam for tests.
var newID = uuid.NewString

type indexPage struct {
	Term  string
	Users []models.User
}

// openRepo selects a fresh repository for this request. On failure it has
// already answered with 500.
func (s *HTTPServer) openRepo(w http.ResponseWriter, r *http.Request) (users.Repository, bool) {
	repo, err := s.repos.Users(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "open repository", "error", err.Error())
		s.renderError(w, r, http.StatusInternalServerError)
		return nil, false
	}
	return repo, true
}

func (s *HTTPServer) closeRepo(r *http.Request, repo users.Repository) {
	if err := repo.Close(); err != nil {
		s.logger.Warn(r.Context(), "close repository", "error", err.Error())
	}
}

func (s *HTTPServer) storageError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error(r.Context(), "storage error", "op", op, "error", err.Error())
	s.renderError(w, r, http.StatusInternalServerError)
}

// loadUser fetches the {id} user, answering 404 or 500 itself when it
// returns false.
func (s *HTTPServer) loadUser(w http.ResponseWriter, r *http.Request, repo users.Repository) (*models.User, bool) {
	u, err := repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storageError(w, r, "get", err)
		return nil, false
	}
	if u == nil {
		s.renderError(w, r, http.StatusNotFound)
		return nil, false
	}
	return u, true
}

func (s *HTTPServer) usersIndex(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	s.logger.Debug(r.Context(), "list users", "term", term)

	repo, ok := s.openRepo(w, r)
	if !ok {
		return
	}
	defer s.closeRepo(r, repo)

	list, err := repo.All(r.Context(), term)
	if err != nil {
		s.storageError(w, r, "all", err)
		return
	}

	s.render(w, r, http.StatusOK, "index", indexPage{Term: term, Users: list})
}

func (s *HTTPServer) usersShow(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.openRepo(w, r)
	if !ok {
		return
	}
	defer s.closeRepo(r, repo)

	u, ok := s.loadUser(w, r, repo)
	if !ok {
		return
	}

	s.render(w, r, http.StatusOK, "show", u)
}

func (s *HTTPServer) usersNew(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "new", formPage{Errors: models.ValidationErrors{}})
}

func (s *HTTPServer) usersCreate(w http.ResponseWriter, r *http.Request) {
	form := parseUserForm(r)
	if errs := form.validate(); len(errs) > 0 {
		s.render(w, r, http.StatusUnprocessableEntity, "new", formPage{Form: form, Errors: errs})
		return
	}

	repo, ok := s.openRepo(w, r)
	if !ok {
		return
	}
	defer s.closeRepo(r, repo)

	u := models.User{ID: newID(), Name: form.Name, Email: form.Email}
	if err := repo.Add(r.Context(), u); err != nil {
		s.storageError(w, r, "add", err)
		return
	}

	s.logger.Info(r.Context(), "user created", "id", u.ID)
	redirect(w, r, "/users/", common.FlashSuccess, "User created successfully")
}

func (s *HTTPServer) usersEdit(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.openRepo(w, r)
	if !ok {
		return
	}
	defer s.closeRepo(r, repo)

	u, ok := s.loadUser(w, r, repo)
	if !ok {
		return
	}

	s.render(w, r, http.StatusOK, "edit", formPage{
		ID:     u.ID,
		Form:   userForm{Name: u.Name, Email: u.Email},
		Errors: models.ValidationErrors{},
	})
}

func (s *HTTPServer) usersPatch(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.openRepo(w, r)
	if !ok {
		return
	}
	defer s.closeRepo(r, repo)

	u, ok := s.loadUser(w, r, repo)
	if !ok {
		return
	}

	form := parseUserForm(r)
	if errs := form.validate(); len(errs) > 0 {
		s.render(w, r, http.StatusUnprocessableEntity, "edit", formPage{ID: u.ID, Form: form, Errors: errs})
		return
	}

	patch := models.UserPatch{Name: &form.Name, Email: &form.Email}
	if err := repo.Update(r.Context(), u.ID, patch); err != nil {
		s.storageError(w, r, "update", err)
		return
	}

	s.logger.Info(r.Context(), "user updated", "id", u.ID)
	redirect(w, r, "/users/", common.FlashSuccess, "User updated successfully")
}

// usersDelete redirects whether or not the user existed.
func (s *HTTPServer) usersDelete(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.openRepo(w, r)
	if !ok {
		return
	}
	defer s.closeRepo(r, repo)

	id := chi.URLParam(r, "id")
	if err := repo.Delete(r.Context(), id); err != nil {
		s.storageError(w, r, "delete", err)
		return
	}

	s.logger.Info(r.Context(), "user deleted", "id", id)
	redirect(w, r, "/users/", common.FlashSuccess, "User deleted successfully")
}
