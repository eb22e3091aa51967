// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/devlog-go/internal/application/container"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/devlog-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/http/server"
	"github.com/AtRiskMedia/devlog-go/pkg/config"
)

// Initialize runs the startup sequence and blocks until SIGINT or SIGTERM
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `
  ▄▄▄▄  ▄▄▄▄▄ ▄   ▄ ▄     ▄▄▄   ▄▄▄▄
  █   █ █▄▄▄  ▀▄ ▄▀ █    █   █ █  ▄▄
  █▄▄▄▀ █▄▄▄▄   ▀   █▄▄▄ ▀▄▄▄▀ ▀▄▄▄▀
` + "\033[97m" + `
  devlog-go: a Contentful blog server
` + "\033[0m")

	// Step 1: Create dependency injection container (the logger is created here)
	log.Println("Initializing dependency injection container...")
	appContainer, err := container.NewContainer()
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	log.Println("✓ Dependency injection container created with singleton services.")

	logger := appContainer.Logger
	defer logger.Close()
	logger.LogStartupPhase("container", time.Since(start), true, map[string]any{
		"api":           config.ContentfulAPI,
		"bodyFormat":    config.ContentfulBodyFormat,
		"contentType":   appContainer.Settings.ContentType,
		"channelLevels": logger.GetChannelLevels(),
	})

	// Step 2: Warm the published response cache
	if config.WarmCacheOnStartup {
		logger.Startup().Info("Initializing cache warming...")
		startWarmTime := time.Now()
		err := appContainer.WarmingService.WarmPublished(ctx)
		metadata := map[string]any{}
		if err != nil {
			metadata["error"] = err.Error()
		}
		logger.LogStartupPhase("cache_warming", time.Since(startWarmTime), err == nil, metadata)
	}

	// Step 3: Start background cleanup worker
	logger.Startup().Info("Starting background cleanup worker...")
	cleanupWorker := cleanup.NewWorker(appContainer.ResponseCache, cleanup.NewConfig(), logger.WithOperation(logging.ChannelCache, "response_cleanup"))
	go cleanupWorker.Start(ctx)

	// Step 4: Start HTTP server
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete", "totalDuration", time.Since(start), "port", port)

	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			return err
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
