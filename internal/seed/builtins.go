// Package seed provides helpers to create built-in accounts and demo data.
// The demo-data factory is intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"darkbin/internal/middleware"
	"darkbin/internal/models"
	"darkbin/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// builtIn describes one account that must exist on every installation.
type builtIn struct {
	Username string
	Role     models.Role
}

var builtIns = []builtIn{
	{Username: "founder", Role: models.RoleFounder},
	{Username: "staff1", Role: models.RoleStaff},
	{Username: "manager1", Role: models.RoleManager},
}

// EnsureBuiltIns creates the built-in staff accounts if they don't exist yet.
// Existing accounts (matched case-insensitively) are left untouched, so role
// or password edits made by operators survive restarts. The password applies
// to newly created accounts only; in production it must come from config.
func EnsureBuiltIns(ctx context.Context, users repository.UserRepository, password string) error {
	if password == "" {
		return fmt.Errorf("built-in seed password is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing built-in password: %w", err)
	}

	for _, b := range builtIns {
		existing, err := users.GetByUsername(ctx, b.Username)
		if err != nil {
			return fmt.Errorf("checking built-in %q: %w", b.Username, err)
		}
		if existing != nil {
			continue
		}

		user := &models.User{
			ID:           uuid.NewString(),
			Username:     b.Username,
			PasswordHash: string(hash),
			Role:         b.Role,
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("creating built-in %q: %w", b.Username, err)
		}
		middleware.Logger.Info("built-in account created",
			slog.String("username", b.Username),
			slog.String("role", string(b.Role)))
	}
	return nil
}
