package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/usersapp/internal/server/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"home", "login", "index", "show", "new", "edit", "error"}

type views struct {
	pages map[string]*template.Template
}

func loadViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("layout.html").ParseFS(templateFS,
			"templates/layout.html", "templates/form.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// page is what every template receives. Data holds the page-specific part.
type page struct {
	Login   string
	Flashes []session.Flash
	Data    any
}

// render executes the named page into a buffer before writing anything, so
// a template failure still yields a clean 500 and the session (flashes
// popped here) is committed with the headers.
func (s *HTTPServer) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	p := page{Data: data}
	if sess, ok := session.FromContext(r.Context()); ok {
		p.Login = sess.Login
		// Error pages leave pending notices for the next regular page.
		if name != "error" {
			p.Flashes = sess.PopFlashes()
		}
	}

	t, ok := s.views.pages[name]
	if !ok {
		s.logger.Error(r.Context(), "unknown template", "name", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, p); err != nil {
		s.logger.Error(r.Context(), "render failed", "name", name, "error", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Status int
	Text   string
}

func (s *HTTPServer) renderError(w http.ResponseWriter, r *http.Request, status int) {
	s.render(w, r, status, "error", errorPage{Status: status, Text: http.StatusText(status)})
}

// redirect adds a flash notice and sends the client to target.
func redirect(w http.ResponseWriter, r *http.Request, target, category, message string) {
	if sess, ok := session.FromContext(r.Context()); ok && message != "" {
		sess.AddFlash(category, message)
	}
	http.Redirect(w, r, target, http.StatusFound)
}
