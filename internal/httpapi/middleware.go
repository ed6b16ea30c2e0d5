// Package httpapi is the transport boundary of the migration engine: it
// resolves the request's version selector and translates JSON bodies between
// that version and head around an inner handler that only knows head shapes.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/rpattn/verge/internal/domain"
	"github.com/rpattn/verge/internal/logger"
)

// VersionHeader is the request header naming the client's API version.
const VersionHeader = "X-API-Version"

// responseWriter captures the HTTP status code for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// VersionSelector resolves the version header against the chain and stores
// the resolved key in the request context. A missing or unknown version is a
// client error; nothing downstream runs without a resolved version.
func VersionSelector(chain *domain.VersionChain, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(VersionHeader)
		if raw == "" {
			writeError(w, http.StatusBadRequest, "missing "+VersionHeader+" header")
			return
		}
		key, err := domain.ParseVersionKey(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed version "+raw)
			return
		}
		if _, ok := chain.Resolve(key); !ok {
			writeError(w, http.StatusBadRequest, "unknown version "+raw)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithVersion(r.Context(), key)))
	})
}

// LoggingMiddleware logs each request with its resolved version. It usually
// sits outside VersionSelector, so it plants a note for the selector to fill
// rather than reading its own request context after the fact.
func LoggingMiddleware(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		r = r.WithContext(withVersionNote(r.Context()))

		next.ServeHTTP(rw, r)

		version, ok := VersionFromContext(r.Context())
		if !ok {
			version, _ = notedVersion(r.Context())
		}
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"version", string(version),
			"duration", time.Since(start).String(),
			"remote", r.RemoteAddr,
		)
	})
}

// CORSHandler wraps the handler with the CORS policy used by the versioned
// boundary.
func CORSHandler(allowedOrigins []string, next http.Handler) http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	})
	return corsHandler.Handler(next)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
