package session

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/usersapp/internal/logging"
)

// Options control how the session cookie is written.
type Options struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// Browsers drop cookies larger than this.
const maxCookieSize = 4096

// Manager loads the session cookie into the request context and writes it
// back before the response headers go out, but only when the session was
// modified.
type Manager struct {
	codec  *Codec
	opts   Options
	logger logging.Logger
}

func NewManager(codec *Codec, opts Options, l logging.Logger) *Manager {
	return &Manager{codec: codec, opts: opts, logger: l.With("module", "session")}
}

func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.load(r)
		sw := &sessionWriter{ResponseWriter: w, m: m, s: s, r: r}
		next.ServeHTTP(sw, r.WithContext(NewContext(r.Context(), s)))
		sw.commit()
	})
}

func (m *Manager) load(r *http.Request) *Session {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return New()
	}

	s, err := m.codec.Decode(c.Value)
	if err != nil {
		m.logger.Warn(r.Context(), "discarding session cookie", "error", err.Error())
		return New()
	}
	return s
}

func (m *Manager) save(w http.ResponseWriter, r *http.Request, s *Session) {
	if !s.Modified() {
		return
	}

	value, err := m.codec.Encode(s)
	if err != nil {
		m.logger.Error(r.Context(), "session not saved", "error", err.Error())
		return
	}
	if len(value) > maxCookieSize {
		m.logger.Warn(r.Context(), "session cookie exceeds browser limit", "bytes", len(value))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.opts.Secure,
		MaxAge:   int(m.opts.MaxAge.Seconds()),
	})
}

// sessionWriter saves the session right before the first header write.
type sessionWriter struct {
	http.ResponseWriter
	m         *Manager
	s         *Session
	r         *http.Request
	committed bool
}

func (w *sessionWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	w.m.save(w.ResponseWriter, w.r, w.s)
}

func (w *sessionWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
