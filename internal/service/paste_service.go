package service

import (
	"context"
	"strings"
	"time"

	"darkbin/internal/cache"
	"darkbin/internal/models"
	"darkbin/internal/ranking"
	"darkbin/internal/repository"

	"github.com/google/uuid"
)

// PasteService owns paste lifecycle rules: input validation, defaults, the
// owner-role snapshot, and the listing pipeline that feeds the ranking engine.
type PasteService struct {
	pasteRepo repository.PasteRepository
	userRepo  repository.UserRepository
}

type CreatePasteInput struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Language  string   `json:"language"`
	OwnerID   string   `json:"user_id"`
	IsPrivate bool     `json:"is_private"`
	ExpiresAt string   `json:"expires_at"`
}

type ListPastesInput struct {
	Search   string
	Category string
	Tag      string
	OwnerID  string
	Sort     string
}

func NewPasteService(pasteRepo repository.PasteRepository, userRepo repository.UserRepository) *PasteService {
	return &PasteService{
		pasteRepo: pasteRepo,
		userRepo:  userRepo,
	}
}

func (s *PasteService) CreatePaste(ctx context.Context, in CreatePasteInput) (*models.Paste, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	const maxTitleLen = 300
	const maxContentLen = 500000
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 500000 characters)")
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = models.DefaultTitle
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	expiresAt := strings.TrimSpace(in.ExpiresAt)
	if expiresAt != "" {
		t, err := time.Parse(time.RFC3339, expiresAt)
		if err != nil {
			return nil, models.NewValidationError("expires_at must be an RFC 3339 timestamp")
		}
		expiresAt = t.UTC().Format(time.RFC3339)
	}

	// Snapshot the owner's role at creation time. An unknown or absent owner
	// ranks as a plain user.
	role := models.RoleUser
	if in.OwnerID != "" && s.userRepo != nil {
		owner, err := s.userRepo.GetByID(ctx, in.OwnerID)
		if err == nil && owner != nil {
			role = owner.Role.OrDefault()
		}
	}

	paste := &models.Paste{
		ID:        id,
		Title:     title,
		Content:   in.Content,
		Category:  category,
		Tags:      models.NewTagList(in.Tags),
		Language:  strings.TrimSpace(in.Language),
		Date:      time.Now().UTC().Format(time.RFC3339),
		OwnerID:   in.OwnerID,
		Role:      role,
		IsPrivate: in.IsPrivate,
		ExpiresAt: expiresAt,
	}

	if err := s.pasteRepo.Create(ctx, paste); err != nil {
		return nil, err
	}
	return paste, nil
}

// ListPastes returns the ranked listing for the query. Unfiltered listings go
// through the cached candidate set; filtered ones hit the database directly.
// Either way the ranking engine re-applies every filter, so a stale cached
// snapshot cannot leak an expired paste.
func (s *PasteService) ListPastes(ctx context.Context, in ListPastesInput) ([]*models.Paste, error) {
	now := time.Now().UTC()
	query := ranking.Query{
		Search:   in.Search,
		Category: in.Category,
		Tag:      in.Tag,
		OwnerID:  in.OwnerID,
		Sort:     in.Sort,
	}

	var candidates []*models.Paste
	unfiltered := in.Search == "" && in.Tag == "" && in.OwnerID == "" &&
		(in.Category == "" || strings.EqualFold(in.Category, ranking.CategoryAll))

	if unfiltered {
		err := cache.Aside(ctx, cache.PasteListKey, &candidates, cache.ListTTL, func() error {
			var fetchErr error
			candidates, fetchErr = s.pasteRepo.List(ctx, repository.PasteFilter{}, now.Format(time.RFC3339))
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		candidates, err = s.pasteRepo.List(ctx, repository.PasteFilter{
			Search:   in.Search,
			Category: in.Category,
			Tag:      in.Tag,
			OwnerID:  in.OwnerID,
		}, now.Format(time.RFC3339))
		if err != nil {
			return nil, err
		}
	}

	return ranking.Rank(candidates, query, now), nil
}

// GetPaste fetches a paste by ID and counts the view. Expired pastes remain
// reachable by direct link until the sweep removes them.
func (s *PasteService) GetPaste(ctx context.Context, id string) (*models.Paste, error) {
	if strings.TrimSpace(id) == "" {
		return nil, models.NewValidationError("Paste ID is required")
	}
	return s.pasteRepo.GetByID(ctx, id)
}

func (s *PasteService) DeletePaste(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return models.NewValidationError("Paste ID is required")
	}
	return s.pasteRepo.Delete(ctx, id)
}

func (s *PasteService) SetPinned(ctx context.Context, id string, pinned bool, requesterRole models.Role) (*models.Paste, error) {
	if strings.TrimSpace(id) == "" {
		return nil, models.NewValidationError("Paste ID is required")
	}
	return s.pasteRepo.SetPinned(ctx, id, pinned, requesterRole.OrDefault())
}

// ToggleLike flips userID's like on the paste and returns the new state.
type ToggleLikeResult struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

func (s *PasteService) ToggleLike(ctx context.Context, pasteID, userID string) (*ToggleLikeResult, error) {
	if strings.TrimSpace(pasteID) == "" {
		return nil, models.NewValidationError("Paste ID is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, models.NewValidationError("user_id is required")
	}

	liked, likes, err := s.pasteRepo.ToggleLike(ctx, pasteID, userID)
	if err != nil {
		return nil, err
	}
	return &ToggleLikeResult{Liked: liked, Likes: likes}, nil
}
