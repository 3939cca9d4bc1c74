package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"darkbin/internal/models"
	"darkbin/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Options configuration for the demo-data seeder
type Options struct {
	NumUsers  int
	NumPastes int
	// MaxDays spreads paste creation dates over this many days back.
	MaxDays int
}

// Factory builds demo entities and persists them through the repositories,
// so seeded data passes the same validation as real data.
type Factory struct {
	users  repository.UserRepository
	pastes repository.PasteRepository
	rng    *rand.Rand
	opts   Options
}

var pasteCategories = []string{
	"Uncategorized", "code", "notes", "logs", "config", "poetry", "recipes",
}

var pasteLanguages = []string{
	"", "go", "python", "javascript", "sql", "bash", "yaml",
}

// NewFactory creates a new Factory bound to the provided repositories.
func NewFactory(users repository.UserRepository, pastes repository.PasteRepository, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{
		users:  users,
		pastes: pastes,
		rng:    rand.New(rand.NewSource(seed)),
		opts:   opts,
	}
}

// Seed populates the database with demo users and pastes.
func (f *Factory) Seed(ctx context.Context) error {
	users := make([]*models.User, 0, f.opts.NumUsers)
	for i := 0; i < f.opts.NumUsers; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, u)
	}

	for i := 0; i < f.opts.NumPastes; i++ {
		var owner *models.User
		if len(users) > 0 && f.rng.Intn(100) < 80 {
			owner = users[f.rng.Intn(len(users))]
		}
		if _, err := f.CreatePaste(ctx, owner); err != nil {
			return fmt.Errorf("seeding paste %d: %w", i, err)
		}
	}
	return nil
}

// CreateUser persists one demo user with a random username.
func (f *Factory) CreateUser(ctx context.Context) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(gofakeit.Password(true, true, true, true, false, 16)), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), f.rng.Intn(10000)),
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPaste constructs a demo paste without persisting it.
func (f *Factory) BuildPaste(owner *models.User, overrides ...func(*models.Paste)) *models.Paste {
	daysBack := f.rng.Intn(f.opts.MaxDays)
	hoursBack := f.rng.Intn(24)
	created := time.Now().UTC().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	paste := &models.Paste{
		ID:       uuid.NewString(),
		Title:    gofakeit.Sentence(4),
		Content:  gofakeit.Paragraph(1, 4, 8, "\n"),
		Category: pasteCategories[f.rng.Intn(len(pasteCategories))],
		Language: pasteLanguages[f.rng.Intn(len(pasteLanguages))],
		Tags:     models.NewTagList([]string{gofakeit.HackerNoun(), gofakeit.HackerAdjective()}),
		Date:     created.Format(time.RFC3339),
		Views:    int64(f.rng.Intn(500)),
		Role:     models.RoleUser,
	}
	if owner != nil {
		paste.OwnerID = owner.ID
		paste.Role = owner.Role.OrDefault()
	}

	// A slice of pastes get an expiry, some already in the past.
	if f.rng.Intn(100) < 15 {
		offset := time.Duration(f.rng.Intn(14*24)-3*24) * time.Hour
		paste.ExpiresAt = time.Now().UTC().Add(offset).Format(time.RFC3339)
	}

	for _, override := range overrides {
		override(paste)
	}
	return paste
}

// CreatePaste persists one demo paste.
func (f *Factory) CreatePaste(ctx context.Context, owner *models.User, overrides ...func(*models.Paste)) (*models.Paste, error) {
	paste := f.BuildPaste(owner, overrides...)
	if err := f.pastes.Create(ctx, paste); err != nil {
		return nil, err
	}
	return paste, nil
}
