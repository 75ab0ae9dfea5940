package rest

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// requireAuth rejects requests without a valid bearer token and otherwise
// stores the caller's identity in the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		id := s.guard.Authenticate(r)
		if id == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, id)
		next(w, r.WithContext(ctx))
	}
}

// identityFrom returns the identity stored by requireAuth.
func identityFrom(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey).(*auth.Identity)
	return id
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Access-Control-Request-Method")

		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(s.opts.TrustedOrigins, origin) || slices.Contains(s.opts.TrustedOrigins, "*")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			// preflight request
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// loggingResponseWriter captures the status and size of a response.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w}
		next.ServeHTTP(lrw, r)

		status := lrw.status
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Debug(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"status", status,
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
			"size", lrw.size,
		)
	})
}

// discardWriter records the status a handler sets and drops its body.
type discardWriter struct {
	http.ResponseWriter
	status int
}

func (d *discardWriter) WriteHeader(code int)        { d.status = code }
func (d *discardWriter) Write(b []byte) (int, error) { return len(b), nil }

// envelopeRoutingErrors answers unmatched paths and methods with the JSON
// envelope instead of the mux's plain-text bodies.
func envelopeRoutingErrors(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		dw := &discardWriter{ResponseWriter: w}
		h.ServeHTTP(dw, r)
		switch dw.status {
		case http.StatusMethodNotAllowed:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		case http.StatusNotFound, 0:
			writeError(w, http.StatusNotFound, "Not found")
		default:
			// redirects keep their Location header
			writeError(w, dw.status, http.StatusText(dw.status))
		}
	})
}
