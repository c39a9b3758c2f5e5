package handler

import (
	"log/slog"
	"net/http"
)

// Login handles POST /login. Success and failure both redirect to "/"; only
// the session flag differs.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Gate.Login(w, r, r.FormValue("password"))
	if err != nil {
		serverError(w, r, "login failed", err)
		return
	}
	if !ok {
		slog.Warn("rejected login attempt", "remote_addr", r.RemoteAddr)
	}
	redirectHome(w, r)
}

// Logout handles GET /logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Gate.Logout(w, r); err != nil {
		serverError(w, r, "logout failed", err)
		return
	}
	redirectHome(w, r)
}
