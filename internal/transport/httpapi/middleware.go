package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Bre77/wip/internal/bootstrap/logging"
	"github.com/Bre77/wip/internal/errs"
	"github.com/Bre77/wip/internal/ports"
)

const sessionCookieName = "wip_session"

type sessionCtxKey struct{}

// requireSession resolves the session cookie and rejects the request with a
// 401 when no valid session exists.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		session, err := h.auth.SessionFromToken(r.Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, ports.ErrSessionNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			logging.Error(r.Context(), "session lookup failed", slog.Any("err", errs.Loggable(err)))
			writeError(w, http.StatusInternalServerError, "session lookup failed")
			return
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) (ports.Session, bool) {
	session, ok := r.Context().Value(sessionCtxKey{}).(ports.Session)
	return session, ok
}
