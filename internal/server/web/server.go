// Package web is the HTTP surface of the users application: a chi router,
// server-rendered html/template pages and the handlers behind them.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/usersapp/internal/logging"
	"github.com/dmitrijs2005/usersapp/internal/server/credentials"
	"github.com/dmitrijs2005/usersapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usersapp/internal/server/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address     string
	repos       repomanager.RepositoryManager
	creds       *credentials.Store
	sessions    *session.Manager
	corsOrigins []string
	views       *views
	logger      logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, repos repomanager.RepositoryManager, creds *credentials.Store,
	sessions *session.Manager, corsOrigins []string) (*HTTPServer, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	return &HTTPServer{
		address:     a,
		repos:       repos,
		creds:       creds,
		sessions:    sessions,
		corsOrigins: corsOrigins,
		views:       v,
		logger:      l.With("module", "http_server"),
	}, nil
}

// Handler builds the router with its middleware stack.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", s.healthz)

	r.Group(func(r chi.Router) {
		r.Use(s.sessions.Middleware)

		r.Get("/", s.home)
		r.Get("/courses/{id}", s.courseShow)

		r.Get("/login", s.loginForm)
		r.Post("/login", s.login)
		r.Post("/logout", s.logout)

		r.Get("/users/", s.usersIndex)
		r.Post("/users", s.usersCreate)
		r.Get("/users/new", s.usersNew)
		r.Get("/users/{id}", s.usersShow)
		r.Get("/users/{id}/edit", s.usersEdit)
		r.Post("/users/{id}/patch", s.usersPatch)
		r.Post("/users/{id}/delete", s.usersDelete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusNotFound)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}
