package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arrdeck/arrdeck/internal/container"
	"github.com/arrdeck/arrdeck/internal/events"
	"github.com/arrdeck/arrdeck/pkg/config"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewZapLogger(!cfg.IsProduction(), cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("arrdeck starting",
		interfaces.String("environment", cfg.Service.Environment),
		interfaces.Int("port", cfg.Service.Port))

	app, cleanup, err := container.InitializeApp(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", interfaces.Error(err))
	}
	defer cleanup()

	// Bind the cache-invalidation subscriber before any registry
	// mutation so startup events are observed too.
	if err := app.Invalidator.Register(app.Bus); err != nil {
		log.Fatal("Failed to register cache invalidator", interfaces.Error(err))
	}

	if cfg.NATS.Enabled {
		mirror, closeMirror, err := events.NewNATSMirror(cfg.NATS.URL, cfg.NATS.Prefix, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", interfaces.Error(err))
		}
		defer closeMirror()
		if err := mirror.Register(app.Bus); err != nil {
			log.Fatal("Failed to register NATS mirror", interfaces.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Manager.LoadSavedServices(ctx); err != nil {
		log.Fatal("Failed to load saved services", interfaces.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Service.Port),
		Handler:      app.Server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", interfaces.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", interfaces.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", interfaces.Error(err))
	}
	log.Info("Shutdown complete")
}
