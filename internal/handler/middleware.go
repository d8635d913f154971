package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
)

// statusWriter captures the response status for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags every request with a generated request ID and logs it
// on completion with status and duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		slog.Info("Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// RequireSession validates the bearer token on the request and stores the
// resulting session in the context. Requests without a usable token get a
// 401 with the session-invalid message.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			respondError(w, auth.ErrMissingToken)
			return
		}

		claims, err := auth.Inspect(token)
		if err != nil {
			respondError(w, err)
			return
		}
		if claims.Expired(time.Now()) {
			respondError(w, auth.ErrSessionInvalid)
			return
		}

		sess := auth.Session{Token: token, UserName: claims.UPN}
		next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), sess)))
	})
}

// session pulls the middleware-established session out of the request and
// binds it to the acting user ID the route named. The backend still enforces
// authorization; the ID here only scopes queries.
func session(r *http.Request, userID string) auth.Session {
	sess, _ := auth.FromContext(r.Context())
	sess.UserID = userID
	return sess
}

// userIDParam reads the acting user's ID from the query string.
func userIDParam(r *http.Request) string {
	return r.URL.Query().Get("userId")
}

// routePattern resolves the chi route pattern for metric labels, falling
// back to the raw path for unmatched requests.
func routePattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
