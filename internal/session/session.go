// Package session implements the password gate: a single "logged in" flag
// carried in a signed (not encrypted) cookie.
package session

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/leca/picvault/internal/config"
)

const (
	cookieName  = "picvault"
	loggedInKey = "logged_in"
)

// Gate checks the configured password and tracks the login flag per client.
type Gate struct {
	store    *sessions.CookieStore
	password string
}

// New creates a Gate from cfg. Only a hash key is given to the cookie store,
// so cookie contents are signed but readable.
func New(cfg *config.Config) *Gate {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	// Keep the codec's timestamp check in step with the cookie lifetime;
	// 0 disables it along with Max-Age.
	store.MaxAge(cfg.SessionMaxAge)
	return &Gate{store: store, password: cfg.Password}
}

// Login sets the flag when password matches. A mismatch leaves the session
// untouched and reports false.
func (g *Gate) Login(w http.ResponseWriter, r *http.Request, password string) (bool, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) != 1 {
		return false, nil
	}
	// A cookie that fails verification still yields a fresh session.
	sess, _ := g.store.Get(r, cookieName)
	sess.Values[loggedInKey] = true
	if err := sess.Save(r, w); err != nil {
		return false, fmt.Errorf("save session: %w", err)
	}
	return true, nil
}

// Logout clears the flag.
func (g *Gate) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := g.store.Get(r, cookieName)
	delete(sess.Values, loggedInKey)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether r carries a valid session with the flag set.
func (g *Gate) IsLoggedIn(r *http.Request) bool {
	sess, err := g.store.Get(r, cookieName)
	if err != nil {
		return false
	}
	v, _ := sess.Values[loggedInKey].(bool)
	return v
}

// RequireLogin redirects requests without a logged-in session to "/".
func (g *Gate) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.IsLoggedIn(r) {
			slog.Debug("login required", "method", r.Method, "path", r.URL.Path)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
