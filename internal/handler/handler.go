package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/leca/picvault/internal/config"
	"github.com/leca/picvault/internal/database"
	"github.com/leca/picvault/internal/session"
	"github.com/leca/picvault/internal/storage"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	DB     database.Database
	Store  storage.Storage
	Gate   *session.Gate
	Config *config.Config

	// Now stamps new records; nil means time.Now.
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// redirectHome sends the client back to the listing page.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// notFound writes a plain-text 404 response.
func notFound(w http.ResponseWriter) {
	http.Error(w, "File not found", http.StatusNotFound)
}

// serverError logs err and writes a plain-text 500 response.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
