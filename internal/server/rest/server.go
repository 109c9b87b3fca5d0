// Package rest exposes the assistant over HTTP: registration and login,
// the authenticated user's profile, chat history and file uploads.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/assistant/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address string
	logger  logging.Logger
	handler http.Handler
}

// Options carries the collaborators of the HTTP API.
type Options struct {
	Users          UserService
	Chats          ChatService
	Uploads        UploadService
	AllowedOrigins []string
}

func NewServer(address string, l logging.Logger, opts Options) *Server {
	logger := l.With("module", "rest_server")
	return &Server{
		address: address,
		logger:  logger,
		handler: NewRouter(logger, opts),
	}
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// NewRouter wires middleware and routes.
func NewRouter(logger logging.Logger, opts Options) http.Handler {
	h := &handlers{
		users:   opts.Users,
		chats:   opts.Chats,
		uploads: opts.Uploads,
		logger:  logger,
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(logger))
	r.Use(Metrics)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/register", h.register)
	r.Post("/token", h.token)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(opts.Users, logger))

		r.Get("/users/me", h.me)
		r.Post("/logout", h.logout)
		r.Post("/chat/", h.storeChat)
		r.Get("/chat/history/", h.chatHistory)
		r.Post("/upload", h.upload)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
