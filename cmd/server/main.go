package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/rpattn/verge/internal/bundles"
	"github.com/rpattn/verge/internal/codegen"
	"github.com/rpattn/verge/internal/config"
	"github.com/rpattn/verge/internal/httpapi"
	"github.com/rpattn/verge/internal/logger"
	"github.com/rpattn/verge/internal/migrate"
	"github.com/rpattn/verge/internal/registry"
	"github.com/rpattn/verge/internal/validate"
)

// The server exposes every registered bundle behind the versioned HTTP
// boundary: clients select a version per request and only ever see payloads
// shaped for it, while the inner handlers work exclusively with head shapes.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer log.Sync()

	bundle, ok := registry.Lookup("users")
	if !ok {
		return fmt.Errorf("users bundle is not registered")
	}

	if err := validate.Chain(bundle.Chain, bundle.Schemas, bundle.Routes); err != nil {
		return fmt.Errorf("chain validation failed: %w", err)
	}

	routesByVersion, err := codegen.GenerateRoutes(bundle.Routes, bundle.Chain)
	if err != nil {
		return fmt.Errorf("derive route sets: %w", err)
	}

	engine := migrate.NewEngine(bundle.Chain)
	table := httpapi.NewRouteTable(routesByVersion)

	mux := http.NewServeMux()
	mux.Handle("POST /users", handlerFor(table, engine, "POST", "/users", "user", "user", echoHandler(log)))
	mux.Handle("GET /users", handlerFor(table, engine, "GET", "/users", "", "user", listHandler(log)))

	handler := httpapi.CORSHandler([]string{"http://localhost:3000"},
		httpapi.LoggingMiddleware(log,
			httpapi.VersionSelector(bundle.Chain, mux)))

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("versioned API server listening", "addr", cfg.ListenAddr, "versions", bundle.Chain.Len())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-quit:
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// handlerFor assembles the per-endpoint stack: route gating for the resolved
// version, then payload migration around the head-only handler.
func handlerFor(table *httpapi.RouteTable, engine *migrate.Engine, method, path, requestSchema, responseSchema string, inner http.Handler) http.Handler {
	return httpapi.RequireRoute(table, method, path,
		httpapi.MigrateJSON(engine, requestSchema, responseSchema, inner))
}

// echoHandler stands in for real persistence: it accepts a head-shaped user
// and returns it with a generated identity.
func echoHandler(log *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		payload["id"] = fmt.Sprintf("u-%d", time.Now().UnixNano())
		log.Debug("user accepted", "id", payload["id"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(payload)
	})
}

func listHandler(log *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("user list requested")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "u-1",
			"name":     "Ada Lovelace",
			"address":  "12 Elm St",
			"nickname": nil,
			"score":    float64(42),
		})
	})
}
