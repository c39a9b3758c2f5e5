package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/leca/picvault/internal/model"
	"github.com/leca/picvault/internal/storage"
	"github.com/leca/picvault/internal/view"
)

// multipartMemory is how much of an upload ParseMultipartForm keeps in memory
// before spilling to a temp file.
const multipartMemory = 8 << 20

// Index handles GET /: the login form for anonymous clients, the gallery
// (newest first) otherwise.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page := view.Page{LoggedIn: h.Gate.IsLoggedIn(r)}

	if page.LoggedIn {
		images, err := h.DB.ListImages()
		if err != nil {
			serverError(w, r, "failed to list images", err)
			return
		}
		page.Images = images
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := view.Render(w, page); err != nil {
		serverError(w, r, "failed to render page", err)
	}
}

// UploadImage handles POST / -- stores one multipart "file" part.
//
// Bytes are staged first, the record is inserted, and only then are the
// bytes moved under their storage key. Each failure undoes the earlier step.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, http.ErrNotMultipart):
			redirectHome(w, r)
		default:
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
		}
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		// Nothing selected: not an error.
		redirectHome(w, r)
		return
	}
	defer file.Close()

	name := storage.SanitizeFilename(header.Filename)
	if name == "" {
		http.Error(w, "invalid filename", http.StatusBadRequest)
		return
	}

	pending, err := h.Store.Stage(file)
	if err != nil {
		serverError(w, r, "failed to stage upload", err)
		return
	}

	key := storage.NewKey(name)
	img := &model.Image{
		Filename:   name,
		Filepath:   h.Store.Path(key),
		UploadedAt: h.now().Format(model.TimestampLayout),
	}

	if err := h.DB.CreateImage(img); err != nil {
		if derr := pending.Discard(); derr != nil {
			slog.Error("failed to discard staged upload", "error", derr)
		}
		serverError(w, r, "failed to create image record", err)
		return
	}

	if err := pending.Commit(key); err != nil {
		if derr := h.DB.DeleteImage(img.ID); derr != nil {
			slog.Error("failed to roll back image record", "id", img.ID, "error", derr)
		}
		if derr := pending.Discard(); derr != nil {
			slog.Error("failed to discard staged upload", "error", derr)
		}
		serverError(w, r, "failed to store image", err)
		return
	}

	slog.Info("image uploaded", "id", img.ID, "filename", img.Filename, "size", pending.Size())
	redirectHome(w, r)
}
