// Command backup writes a single paste snapshot and exits. Useful for cron
// jobs and pre-migration exports when the API server is not running.
package main

import (
	"context"
	"log"
	"time"

	"darkbin/internal/backup"
	"darkbin/internal/config"
	"darkbin/internal/database"
	"darkbin/internal/featureflags"
	"darkbin/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	exporter := backup.NewExporter(
		repository.NewPasteRepository(db),
		cfg.BackupDir,
		cfg.BackupRetain,
		time.Duration(cfg.BackupIntervalMinutes)*time.Minute,
		time.Duration(cfg.ExpirySweepAfterHours)*time.Hour,
		featureflags.NewManager(cfg.FeatureFlags),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	path, err := exporter.ExportOnce(ctx)
	if err != nil {
		log.Fatalf("Snapshot failed: %v", err)
	}
	log.Printf("Snapshot written to %s", path)
}
