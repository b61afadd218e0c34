package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsclient/fsclient-go/internal/api"
	"github.com/fsclient/fsclient-go/internal/config"
	"github.com/fsclient/fsclient-go/internal/core"
	"github.com/fsclient/fsclient-go/internal/jobs"
	"github.com/fsclient/fsclient-go/internal/logging"
)

var version = "dev"

func main() {
	logging.Setup()

	// Initialize the core application components
	app, err := core.New()
	if err != nil {
		logrus.Fatalf("Fatal error during application setup: %v", err)
	}
	app.Version = version

	// Warm the mirror caches and start the periodic re-probe job.
	go app.JobManager().RunJob(jobs.MirrorProbeJobID, app)
	jobs.StartJobs(app)

	// Watch the config file so edited mirror lists take effect
	// without a restart.
	if path := config.ConfigFilePath(); path != "" {
		watcher := config.NewWatcher(path, func(cfg *config.Config) {
			app.InvalidateMirrors()
		})
		if err := watcher.Start(); err != nil {
			logrus.Warnf("Could not start config watcher: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	// Setup the API server
	server := api.NewServer(app)
	addr := fmt.Sprintf(":%d", app.Config().Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}
	// --- Graceful Shutdown ---
	// Start the server in a goroutine so it doesn't block.
	go func() {
		logrus.Infof("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Could not start server: %v", err)
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a context with a timeout to allow existing connections to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Attempt a graceful shutdown.
	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exiting.")
}
