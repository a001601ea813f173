// main is the entry point of the student records service.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the configured storage backend (sqlite, postgres or memory)
//  4. Register all HTTP routes behind bearer-token auth
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives or the server fails
//  7. Gracefully shut down: finish in-flight requests, close storage, exit
//
// A server that fails to listen or to shut down exits with status 1.
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-api
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/student-records/internal/auth"
	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/http/handlers/student"
	"github.com/aanand-mishra/student-records/internal/logging"
	"github.com/aanand-mishra/student-records/internal/storage/backend"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := logging.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	if cfg.Storage.Driver == config.DriverRemote {
		log.Error("the records service cannot use the remote storage driver")
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Error("auth.jwt_secret is required to verify bearer tokens")
		os.Exit(1)
	}

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// backend.Open returns the storage.Storage INTERFACE; nothing below
	// knows which database sits behind it.
	storage, err := backend.Open(context.Background(), cfg, "")
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	verifier := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	router := student.Router(storage, verifier, cfg.CORS.AllowedOrigins)

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 6. Serve until a shutdown signal ──────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	if err := serve(server, done, cfg.HTTPServer.ShutdownTimeout, log); err != nil {
		log.Error("server stopped with an error", slog.String("error", err.Error()))
		// os.Exit skips deferred calls, so storage is closed here.
		storage.Close()
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// serve runs server until it fails or a signal arrives on stop, then shuts
// it down within timeout. A nil return means a clean stop.
func serve(server *http.Server, stop <-chan os.Signal, timeout time.Duration, log *slog.Logger) error {
	// ListenAndServe returns http.ErrServerClosed after Shutdown; that is
	// the normal way out and not an error.
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-stop:
		log.Info("shutdown signal received, stopping server...")
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	}

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
