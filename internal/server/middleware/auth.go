package middleware

import (
	"context"
	"net/http"

	"github.com/martdesk/martdesk/internal/gate"
	"github.com/martdesk/martdesk/internal/model"
)

type contextKeyAuth string

// SessionKey is the context key for the restored session.
const SessionKey contextKeyAuth = "session"

// RequireSession restores the persisted current session and attaches it to
// the request context. Requests without an active session get a 401 JSON
// error; a store fault maps to 500 without detail.
func RequireSession(g *gate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := g.RestoreSession(r.Context())
			if err != nil {
				writeAuthError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
				return
			}
			if sess == nil {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole enforces that the session's role matches one of the given
// roles. Must be chained after RequireSession.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if sess == nil {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if sess.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeAuthError(w, http.StatusForbidden, "Insufficient role")
		})
	}
}

// GetSession extracts the restored session from the context. Returns nil for
// unauthenticated requests.
func GetSession(ctx context.Context) *model.Session {
	if s, ok := ctx.Value(SessionKey).(*model.Session); ok {
		return s
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Manually construct JSON to avoid an import cycle with the handler package
	w.Write([]byte(`{"error":{"code":` + statusString(status) + `,"message":"` + message + `"}}`))
}

func statusString(code int) string {
	switch code {
	case 401:
		return "401"
	case 403:
		return "403"
	default:
		return "500"
	}
}
