package router

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leca/picvault/internal/config"
	"github.com/leca/picvault/internal/database"
	"github.com/leca/picvault/internal/handler"
	"github.com/leca/picvault/internal/session"
	"github.com/leca/picvault/internal/storage"
)

// Server holds the application dependencies and HTTP router.
type Server struct {
	DB     database.Database
	Store  storage.Storage
	Config *config.Config
	Router chi.Router
}

// New creates a new Server with a fully configured chi router.
func New(db database.Database, store storage.Storage, cfg *config.Config) *Server {
	s := &Server{DB: db, Store: store, Config: cfg}

	gate := session.New(cfg)
	h := &handler.Handler{
		DB:     db,
		Store:  store,
		Gate:   gate,
		Config: cfg,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	// Health check (no auth required).
	r.Get("/health", s.Health)

	// Login form or gallery, depending on the session.
	r.Get("/", h.Index)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(gate.RequireLogin)

		r.Post("/", h.UploadImage)
		r.Get("/logout", h.Logout)
		r.Get("/uploads/{filename}", h.ServeInline)
		r.Get("/download/{id}", h.DownloadImage)
		r.Get("/delete/{id}", h.DeleteImage)
	})

	s.Router = r
	return s
}

// Health returns a simple health-check response.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("health: failed to encode response", "error", err)
	}
}
