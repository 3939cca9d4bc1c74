package service

import (
	"context"
	"testing"

	"darkbin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListUsers_StripsCredentials(t *testing.T) {
	repo := noopUserRepo()
	repo.listFn = func(_ context.Context) ([]models.User, error) {
		return []models.User{
			{ID: "u1", Username: "founder", PasswordHash: "secret", Role: models.RoleFounder},
			{ID: "u2", Username: "staff1", PasswordHash: "secret", Role: models.RoleStaff},
		}, nil
	}

	svc := NewUserService(repo)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "founder", users[0].Username)
	assert.Equal(t, models.RoleFounder, users[0].Role)
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := noopUserRepo()
	var saved *models.UserProfile
	repo.upsertProfileFn = func(_ context.Context, p *models.UserProfile) error {
		saved = p
		return nil
	}

	svc := NewUserService(repo)

	profile, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: "u1",
		Bio:    "night owl",
		Theme:  "dark",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "night owl", profile.Bio)
	assert.False(t, profile.LastSeen.IsZero())
}

func TestUserService_UpdateProfile_UnknownUser(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
		return nil, models.NewNotFoundError("user", id)
	}

	svc := NewUserService(repo)

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, err.(*models.AppError).Code)
}
