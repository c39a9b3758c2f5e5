package handler

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leca/picvault/internal/database"
	"github.com/leca/picvault/internal/model"
	"github.com/leca/picvault/internal/storage"
)

// ServeInline handles GET /uploads/{filename} -- streams the newest image
// uploaded under filename for display in an <img> tag.
func (h *Handler) ServeInline(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "filename")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(raw); err == nil {
			raw = unescaped
		}
	}

	name := storage.SanitizeFilename(raw)
	if name == "" || name != raw {
		notFound(w)
		return
	}

	img, err := h.DB.FindLatestImage(name)
	if errors.Is(err, database.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		serverError(w, r, "failed to look up image", err)
		return
	}

	h.serveFile(w, r, img, false)
}

// DownloadImage handles GET /download/{id} -- streams the image as an
// attachment so the browser saves it.
func (h *Handler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := imageID(r)
	if !ok {
		notFound(w)
		return
	}

	img, err := h.DB.GetImage(id)
	if errors.Is(err, database.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		serverError(w, r, "failed to look up image", err)
		return
	}

	h.serveFile(w, r, img, true)
}

// DeleteImage handles GET /delete/{id}. Unknown ids are a no-op. A file that
// cannot be removed is logged and the record is deleted anyway.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := imageID(r)
	if !ok {
		redirectHome(w, r)
		return
	}

	img, err := h.DB.GetImage(id)
	if errors.Is(err, database.ErrNotFound) {
		redirectHome(w, r)
		return
	}
	if err != nil {
		serverError(w, r, "failed to look up image", err)
		return
	}

	if err := h.Store.Delete(storageKey(img)); err != nil {
		slog.Error("failed to remove image file", "id", img.ID, "filepath", img.Filepath, "error", err)
	}

	if err := h.DB.DeleteImage(id); err != nil && !errors.Is(err, database.ErrNotFound) {
		serverError(w, r, "failed to delete image record", err)
		return
	}

	slog.Info("image deleted", "id", img.ID, "filename", img.Filename)
	redirectHome(w, r)
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, img *model.Image, attachment bool) {
	rc, modTime, err := h.Store.Open(storageKey(img))
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("image file missing", "id", img.ID, "filepath", img.Filepath)
		notFound(w)
		return
	}
	if err != nil {
		serverError(w, r, "failed to open image file", err)
		return
	}
	defer rc.Close()

	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	if v := mime.FormatMediaType(disposition, map[string]string{"filename": img.Filename}); v != "" {
		disposition = v
	}
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("X-Content-Type-Options", "nosniff")

	// ServeContent picks the Content-Type from the filename extension,
	// falling back to sniffing the first bytes.
	http.ServeContent(w, r, img.Filename, modTime, rc)
}

// imageID parses the {id} URL parameter.
func imageID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// storageKey recovers the storage key from the recorded file path.
func storageKey(img *model.Image) string {
	return filepath.Base(img.Filepath)
}
