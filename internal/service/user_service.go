package service

import (
	"context"
	"strings"
	"time"

	"darkbin/internal/models"
	"darkbin/internal/repository"
)

// UserService exposes account listings and profile management.
type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID string `json:"-"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
	Theme  string `json:"theme"`
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns all accounts as public projections.
func (s *UserService) ListUsers(ctx context.Context) ([]models.SafeUser, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	safe := make([]models.SafeUser, 0, len(users))
	for i := range users {
		safe = append(safe, users[i].Safe())
	}
	return safe, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, models.NewValidationError("User ID is required")
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, models.NewValidationError("User ID is required")
	}
	return s.userRepo.GetProfile(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.UserProfile, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, models.NewValidationError("User ID is required")
	}
	if len(in.Bio) > 500 {
		return nil, models.NewValidationError("Bio too long (max 500 characters)")
	}

	// The user must exist; profiles are not created for phantom accounts.
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	profile, err := s.userRepo.GetProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	profile.Bio = in.Bio
	profile.Avatar = in.Avatar
	profile.Theme = in.Theme
	profile.LastSeen = time.Now().UTC()

	if err := s.userRepo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// TouchLastSeen updates the profile's last-seen timestamp, creating the
// profile row if needed. Failures are reported but non-fatal to callers.
func (s *UserService) TouchLastSeen(ctx context.Context, userID string) error {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	profile.LastSeen = time.Now().UTC()
	return s.userRepo.UpsertProfile(ctx, profile)
}
