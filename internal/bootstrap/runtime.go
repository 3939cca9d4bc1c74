// Package bootstrap wires configuration into live runtime dependencies.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"darkbin/internal/cache"
	"darkbin/internal/config"
	"darkbin/internal/database"
	"darkbin/internal/middleware"
	"darkbin/internal/repository"
	"darkbin/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedBuiltIns bool
}

// InitRuntime connects to DB and Redis and optionally seeds the built-in
// staff accounts.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedBuiltIns {
		users := repository.NewUserRepository(db)
		if err := seedBuiltIns(context.Background(), users, cfg); err != nil {
			return nil, nil, err
		}
	}

	return db, r, nil
}

// seedBuiltIns creates the built-in staff accounts when a seed password is
// configured. The stock dev config carries none; that skips seeding with a
// warning instead of refusing to start.
func seedBuiltIns(ctx context.Context, users repository.UserRepository, cfg *config.Config) error {
	password := builtInPassword(cfg)
	if password == "" {
		middleware.Logger.Warn("skipping built-in account seeding: DEV_SEED_PASSWORD not set")
		return nil
	}
	if err := seed.EnsureBuiltIns(ctx, users, password); err != nil {
		return fmt.Errorf("failed to seed built-in accounts: %w", err)
	}
	return nil
}

// builtInPassword resolves the password for newly created built-in accounts.
// Only development and test environments get one; production operators create
// staff accounts explicitly.
func builtInPassword(cfg *config.Config) string {
	if strings.EqualFold(cfg.Env, "production") || strings.EqualFold(cfg.Env, "prod") {
		return ""
	}
	return cfg.DevSeedPassword
}
