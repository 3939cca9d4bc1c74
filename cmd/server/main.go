// Command server is the entry point for the darkbin API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"darkbin/internal/backup"
	"darkbin/internal/bootstrap"
	"darkbin/internal/config"
	"darkbin/internal/featureflags"
	"darkbin/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Built-in staff accounts exist only outside production.
	seedBuiltIns := !strings.EqualFold(cfg.Env, "production")

	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{
		SeedBuiltIns: seedBuiltIns,
	})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Periodic snapshot exporter with expiry sweeping
	flags := featureflags.NewManager(cfg.FeatureFlags)
	exporter := backup.NewExporter(
		srv.PasteRepo(),
		cfg.BackupDir,
		cfg.BackupRetain,
		time.Duration(cfg.BackupIntervalMinutes)*time.Minute,
		time.Duration(cfg.ExpirySweepAfterHours)*time.Hour,
		flags,
	)
	srv.SetExporter(exporter)

	exporterCtx, stopExporter := context.WithCancel(context.Background())
	go exporter.Run(exporterCtx)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		stopExporter()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
