package service

import (
	"context"

	"darkbin/internal/models"
	"darkbin/internal/repository"
)

// pasteRepoStub is a stub for repository.PasteRepository.
type pasteRepoStub struct {
	createFn       func(context.Context, *models.Paste) error
	getByIDFn      func(context.Context, string) (*models.Paste, error)
	peekFn         func(context.Context, string) (*models.Paste, error)
	listFn         func(context.Context, repository.PasteFilter, string) ([]*models.Paste, error)
	deleteFn       func(context.Context, string) error
	setPinnedFn    func(context.Context, string, bool, models.Role) (*models.Paste, error)
	toggleLikeFn   func(context.Context, string, string) (bool, int64, error)
	sweepExpiredFn func(context.Context, string) (int64, error)
	allFn          func(context.Context) ([]*models.Paste, error)
}

func (s *pasteRepoStub) Create(ctx context.Context, paste *models.Paste) error {
	return s.createFn(ctx, paste)
}
func (s *pasteRepoStub) GetByID(ctx context.Context, id string) (*models.Paste, error) {
	return s.getByIDFn(ctx, id)
}
func (s *pasteRepoStub) Peek(ctx context.Context, id string) (*models.Paste, error) {
	return s.peekFn(ctx, id)
}
func (s *pasteRepoStub) List(ctx context.Context, filter repository.PasteFilter, now string) ([]*models.Paste, error) {
	return s.listFn(ctx, filter, now)
}
func (s *pasteRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *pasteRepoStub) SetPinned(ctx context.Context, id string, pinned bool, role models.Role) (*models.Paste, error) {
	return s.setPinnedFn(ctx, id, pinned, role)
}
func (s *pasteRepoStub) ToggleLike(ctx context.Context, pasteID, userID string) (bool, int64, error) {
	return s.toggleLikeFn(ctx, pasteID, userID)
}
func (s *pasteRepoStub) SweepExpired(ctx context.Context, cutoff string) (int64, error) {
	return s.sweepExpiredFn(ctx, cutoff)
}
func (s *pasteRepoStub) All(ctx context.Context) ([]*models.Paste, error) {
	return s.allFn(ctx)
}

func noopPasteRepo() *pasteRepoStub {
	return &pasteRepoStub{
		createFn:  func(_ context.Context, _ *models.Paste) error { return nil },
		getByIDFn: func(_ context.Context, _ string) (*models.Paste, error) { return &models.Paste{}, nil },
		peekFn:    func(_ context.Context, _ string) (*models.Paste, error) { return &models.Paste{}, nil },
		listFn: func(_ context.Context, _ repository.PasteFilter, _ string) ([]*models.Paste, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ string) error { return nil },
		setPinnedFn: func(_ context.Context, _ string, _ bool, _ models.Role) (*models.Paste, error) {
			return &models.Paste{}, nil
		},
		toggleLikeFn:   func(_ context.Context, _, _ string) (bool, int64, error) { return false, 0, nil },
		sweepExpiredFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
		allFn:          func(_ context.Context) ([]*models.Paste, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	listFn          func(context.Context) ([]models.User, error)
	updateFn        func(context.Context, *models.User) error
	getProfileFn    func(context.Context, string) (*models.UserProfile, error)
	upsertProfileFn func(context.Context, *models.UserProfile) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.getProfileFn(ctx, userID)
}
func (s *userRepoStub) UpsertProfile(ctx context.Context, profile *models.UserProfile) error {
	return s.upsertProfileFn(ctx, profile)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		listFn:          func(_ context.Context) ([]models.User, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		getProfileFn: func(_ context.Context, userID string) (*models.UserProfile, error) {
			return &models.UserProfile{UserID: userID}, nil
		},
		upsertProfileFn: func(_ context.Context, _ *models.UserProfile) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listByPasteFn func(context.Context, string) ([]*models.Comment, error)
	deleteFn      func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPaste(ctx context.Context, pasteID string) ([]*models.Comment, error) {
	return s.listByPasteFn(ctx, pasteID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:     func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByPasteFn: func(_ context.Context, _ string) ([]*models.Comment, error) { return nil, nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}
