// Command seed populates a development database with the built-in staff
// accounts and a batch of demo users and pastes.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"darkbin/internal/bootstrap"
	"darkbin/internal/config"
	"darkbin/internal/repository"
	"darkbin/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "number of demo users to create")
	numPastes := flag.Int("pastes", 50, "number of demo pastes to create")
	maxDays := flag.Int("days", 90, "spread paste dates over this many days back")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if strings.EqualFold(cfg.Env, "production") {
		log.Fatal("Refusing to seed demo data in production")
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedBuiltIns: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	factory := seed.NewFactory(
		repository.NewUserRepository(db),
		repository.NewPasteRepository(db),
		seed.Options{
			NumUsers:  *numUsers,
			NumPastes: *numPastes,
			MaxDays:   *maxDays,
		},
	)

	if err := factory.Seed(context.Background()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users and %d pastes", *numUsers, *numPastes)
}
