package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Bre77/wip/internal/bootstrap/logging"
	"github.com/Bre77/wip/internal/errs"
	"github.com/Bre77/wip/internal/ports"
)

const (
	stateCookieName   = "wip_oauth_state"
	sessionMaxAge     = 30 * 24 * 60 * 60
	stateCookieAge    = 600
	postLoginRedirect = "/"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   stateCookieAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || cookie.Value != state {
		writeError(w, http.StatusBadRequest, "state mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	session, err := h.auth.CompleteLogin(r.Context(), code)
	if err != nil {
		logging.Error(r.Context(), "login failed", slog.Any("err", errs.Loggable(err)))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	// The state cookie is single use.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Path:   "/auth",
		MaxAge: -1,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, postLoginRedirect, http.StatusFound)
}

type meResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	Username      string `json:"username,omitempty"`
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromCookie(r)
	if !ok {
		writeJSON(w, http.StatusOK, meResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		Authenticated: true,
		UserID:        session.UserKey,
		Username:      session.Username,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			logging.Warn(r.Context(), "logout failed", slog.Any("err", errs.Loggable(err)))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookieName,
		Path:   "/",
		MaxAge: -1,
	})

	http.Redirect(w, r, postLoginRedirect, http.StatusFound)
}

func (h *Handler) sessionFromCookie(r *http.Request) (ports.Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ports.Session{}, false
	}

	session, err := h.auth.SessionFromToken(r.Context(), cookie.Value)
	if err != nil {
		return ports.Session{}, false
	}
	return session, true
}
