package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/barnight/internal/audit"
	"github.com/mmynk/barnight/internal/auth"
	"github.com/mmynk/barnight/internal/config"
	"github.com/mmynk/barnight/internal/metrics"
	"github.com/mmynk/barnight/internal/middleware"
	"github.com/mmynk/barnight/internal/service"
	"github.com/mmynk/barnight/internal/storage"
	"github.com/mmynk/barnight/internal/storage/postgres"
	"github.com/mmynk/barnight/internal/storage/sqlite"
	"github.com/mmynk/barnight/pkg/api/apiconnect"
	"github.com/mmynk/barnight/pkg/logging"
)

func main() {
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	worker := audit.NewWorker(store, cfg.AuditBuffer)
	worker.Start()
	defer worker.Shutdown()

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// Register Connect services
	nightPath, nightHandler := apiconnect.NewBarNightServiceHandler(
		service.NewNightService(store, worker, m, slog.Default()),
		connect.WithInterceptors(
			m.Interceptor(),
			middleware.RequireAuth(jwtManager, apiconnect.BarNightServiceWriteProcedures...),
			middleware.LoggingInterceptor(slog.Default()),
		),
	)
	router.Mount(nightPath, nightHandler)

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, slog.Default()),
		connect.WithInterceptors(
			m.Interceptor(),
			middleware.OptionalAuth(jwtManager),
			middleware.LoggingInterceptor(slog.Default()),
		),
	)
	router.Mount(authPath, authHandler)

	router.Handle("/metrics", m.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	staticHandler, err := staticFiles(cfg.StaticPath)
	if err != nil {
		return err
	}
	router.Handle("/*", staticHandler)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr), "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore opens the backend selected by DB_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver)
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver, "database", cfg.DBPath)
		return store, nil
	}
}

// staticFiles serves the frontend, falling back to index.html for unknown paths.
func staticFiles(staticPath string) (http.Handler, error) {
	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Unknown RPCs should not get the SPA page
		if strings.HasPrefix(r.URL.Path, "/barnight.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}), nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("Request completed",
			"request_id", chimiddleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
