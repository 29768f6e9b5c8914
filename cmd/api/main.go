//	@title			Upload Service API
//	@version		1.0
//	@description	Stores uploaded images, videos, PDFs and APK packages in a flat directory and serves them by generated name.
//
//	@host		localhost:8009
//	@BasePath	/

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/radif/uploads/internal/config"
	"github.com/radif/uploads/internal/logging"
	"github.com/radif/uploads/internal/metrics"
	"github.com/radif/uploads/internal/server"
	"github.com/radif/uploads/internal/storage"
	"github.com/radif/uploads/internal/upload"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.IsProduction(), os.Stdout)

	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		log.Error("storage init failed", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewPrometheusRecorder(reg)
	if err != nil {
		log.Error("metrics init failed", "error", err)
		os.Exit(1)
	}

	// Wire dependencies: storage → handler → router
	uploads := upload.NewHandler(store, upload.DefaultPolicy(), upload.Options{
		Metrics:         recorder,
		Logger:          log,
		MultipartMemory: cfg.MultipartMemory,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(server.Deps{Uploads: uploads, Logger: log, Gatherer: reg}),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening", "port", cfg.Port, "env", cfg.AppEnv, "upload_dir", store.Root())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	log.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
