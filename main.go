package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conflictdash/internal"
	"conflictdash/internal/config"
	"conflictdash/internal/dataset"
	"conflictdash/internal/errors"
	"conflictdash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, ok := internal.ParseLogLevel(appConfig.Log.Level)
	if !ok {
		log.Printf("Unknown LOG_LEVEL %q, using INFO", appConfig.Log.Level)
		level = internal.LogLevelInfo
	}
	logger := internal.NewLogger(level)
	gin.SetMode(appConfig.Server.GinMode)

	// The dataset is loaded once, up front; a missing or malformed file stops the process.
	store := dataset.NewStore(appConfig.Data.File, logger)
	ds, err := store.Get()
	if err != nil {
		if errors.HasCode(err, errors.CodeSchemaMismatch) {
			logger.Error("Dataset %s does not have the expected columns", appConfig.Data.File)
		}
		logger.Error("Failed to load dataset: %v", err)
		os.Exit(1)
	}
	logger.Info("Serving %d months of %s data from %s", ds.Len(), appConfig.Data.CountryName, ds.Path())

	server, err := ui.NewServer(store, appConfig, logger)
	if err != nil {
		logger.Error("Failed to initialize server: %v", err)
		os.Exit(1)
	}

	if err := run(server.Handler(), appConfig.Server, logger); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

// run serves until SIGINT or SIGTERM, then drains in-flight requests within the shutdown timeout
func run(handler http.Handler, cfg config.ServerConfig, logger *internal.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting dashboard server on http://localhost:%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down, waiting up to %s for open requests", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
