package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rpattn/verge/internal/domain"
	"github.com/rpattn/verge/internal/migrate"
)

// bufferedWriter holds the inner handler's response so its body can be
// migrated before anything reaches the wire.
type bufferedWriter struct {
	header     http.Header
	body       bytes.Buffer
	statusCode int
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header), statusCode: http.StatusOK}
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) Write(p []byte) (int, error) {
	return bw.body.Write(p)
}

func (bw *bufferedWriter) WriteHeader(code int) {
	bw.statusCode = code
}

// MigrateJSON adapts a head-shaped JSON handler to the version resolved by
// VersionSelector: the request body is migrated forward to head before the
// inner handler runs, and a successful JSON response is migrated backward to
// the request's version before it is written. requestSchema may be empty for
// endpoints without a body.
func MigrateJSON(engine *migrate.Engine, requestSchema, responseSchema string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version, ok := VersionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusBadRequest, "request version not resolved")
			return
		}

		if requestSchema != "" && r.Body != nil && r.ContentLength != 0 {
			raw, err := io.ReadAll(r.Body)
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable request body")
				return
			}
			var payload map[string]any
			if err := json.Unmarshal(raw, &payload); err != nil {
				writeError(w, http.StatusBadRequest, "request body is not a JSON object")
				return
			}
			migrated, err := engine.MigrateRequest(r.Context(), requestSchema, payload, version)
			if err != nil {
				writeMigrationError(w, err)
				return
			}
			encoded, err := json.Marshal(migrated)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "re-encode migrated request")
				return
			}
			r = r.Clone(r.Context())
			r.Body = io.NopCloser(bytes.NewReader(encoded))
			r.ContentLength = int64(len(encoded))
		}

		if responseSchema == "" {
			next.ServeHTTP(w, r)
			return
		}

		buffered := newBufferedWriter()
		next.ServeHTTP(buffered, r)

		copyHeader(w.Header(), buffered.header)
		if buffered.statusCode >= http.StatusMultipleChoices || buffered.body.Len() == 0 {
			w.WriteHeader(buffered.statusCode)
			_, _ = w.Write(buffered.body.Bytes())
			return
		}

		var payload map[string]any
		if err := json.Unmarshal(buffered.body.Bytes(), &payload); err != nil {
			writeError(w, http.StatusInternalServerError, "response body is not a JSON object")
			return
		}
		migrated, err := engine.MigrateResponse(r.Context(), responseSchema, payload, version)
		if err != nil {
			writeMigrationError(w, err)
			return
		}
		encoded, err := json.Marshal(migrated)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "re-encode migrated response")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(buffered.statusCode)
		_, _ = w.Write(encoded)
	})
}

// writeMigrationError maps engine failures onto transport statuses: unknown
// versions are the client's fault, everything else is a server-side
// configuration or side-effect failure.
func writeMigrationError(w http.ResponseWriter, err error) {
	var unknown *migrate.UnknownVersionError
	if errors.As(err, &unknown) {
		writeError(w, http.StatusBadRequest, unknown.Error())
		return
	}
	var unmigratable *migrate.UnmigratableFieldError
	if errors.As(err, &unmigratable) {
		writeError(w, http.StatusInternalServerError, unmigratable.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func copyHeader(dst, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

// RouteTable exposes the per-version endpoint sets for handler wiring, e.g.
// to return 404 for endpoints that do not exist at the request's version.
type RouteTable struct {
	routes map[domain.VersionKey]map[domain.RouteKey]domain.Endpoint
}

// NewRouteTable indexes generated route sets by version and route key.
func NewRouteTable(routesByVersion map[domain.VersionKey][]domain.Endpoint) *RouteTable {
	indexed := make(map[domain.VersionKey]map[domain.RouteKey]domain.Endpoint, len(routesByVersion))
	for version, endpoints := range routesByVersion {
		byKey := make(map[domain.RouteKey]domain.Endpoint, len(endpoints))
		for _, endpoint := range endpoints {
			byKey[endpoint.Key()] = endpoint
		}
		indexed[version] = byKey
	}
	return &RouteTable{routes: indexed}
}

// Exposed reports whether the endpoint exists at the version.
func (t *RouteTable) Exposed(version domain.VersionKey, key domain.RouteKey) (domain.Endpoint, bool) {
	byKey, ok := t.routes[version]
	if !ok {
		return domain.Endpoint{}, false
	}
	endpoint, ok := byKey[key]
	return endpoint, ok
}

// RequireRoute rejects requests whose endpoint is not exposed at the
// resolved version, so a route removed in a newer version keeps serving
// older clients and nothing else.
func RequireRoute(table *RouteTable, method, path string, next http.Handler) http.Handler {
	key := domain.RouteKey{Method: method, Path: path}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version, ok := VersionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusBadRequest, "request version not resolved")
			return
		}
		if _, exposed := table.Exposed(version, key); !exposed {
			writeError(w, http.StatusNotFound, "endpoint not available at version "+string(version))
			return
		}
		next.ServeHTTP(w, r)
	})
}
