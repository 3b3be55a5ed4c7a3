/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the worktime HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load YAML config, then apply command-line flags on top
  2. Build the slog logger
  3. Initialize SQLite store
  4. Seed settings from the configured settings file if none are saved
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (default: worktime.yaml, missing is fine)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config)
           Use ":memory:" for in-memory database
  -log-level, -log-format  Logging (overrides config)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server -db="./data/worktime.db"
  ./server -db=":memory:" -port=3000 -log-format=json

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Config file format
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/worktime-engine/api"
	"github.com/warp/worktime-engine/config"
	"github.com/warp/worktime-engine/factory"
	"github.com/warp/worktime-engine/logging"
	"github.com/warp/worktime-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	configPath := flag.String("config", "worktime.yaml", "YAML config file")
	port := flag.Int("port", 0, "HTTP server port")
	dbPath := flag.String("db", "", "SQLite database path")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "", "Log format: text or json")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Initialize store
	store, err := sqlite.NewWithLocation(cfg.DatabasePath, loc)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	if err := seedSettings(context.Background(), store, cfg.SettingsFile); err != nil {
		logger.Warn("settings file not applied", "file", cfg.SettingsFile, "err", err)
	}

	handler := api.NewHandler(store, api.WithLocation(loc), api.WithLogger(logger))
	router := api.NewRouter(handler, cfg.CORSOrigins...)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "db", cfg.DatabasePath, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// seedSettings applies a JSON settings file when the store has none saved.
func seedSettings(ctx context.Context, store *sqlite.Store, path string) error {
	if path == "" {
		return nil
	}
	saved, err := store.HasSettings(ctx)
	if err != nil || saved {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	st, err := factory.NewSettingsFactory().ParseSettings(string(data))
	if err != nil {
		return err
	}
	return store.SaveSettings(ctx, st)
}
