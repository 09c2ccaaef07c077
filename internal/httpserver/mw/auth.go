package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/ldrouet/marque/internal/logger"
	"github.com/ldrouet/marque/internal/session"
)

type contextKey string

const userIDKey contextKey = "userID"

// SessionCookie is the cookie browser clients carry the session token in.
// API clients may use "Authorization: Bearer <token>" instead.
const SessionCookie = "marque_session"

// UserID returns the authenticated user ID placed by RequireSession.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// WithUserID returns a context carrying userID, as RequireSession would set it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequireSession resolves the session token to a user ID and rejects the
// request with 401 when there is none.
func RequireSession(sessions *session.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			userID, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				if err != session.ErrNoSession {
					log.Warn("session lookup failed", logger.Error(err))
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken extracts the token from the Authorization header or the
// session cookie, in that order.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
