package service

import (
	"context"
	"strings"

	"darkbin/internal/models"
	"darkbin/internal/repository"
)

// CommentService handles comment creation and moderation rules.
type CommentService struct {
	commentRepo repository.CommentRepository
}

type CreateCommentInput struct {
	PasteID string `json:"-"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.PasteID) == "" {
		return nil, models.NewValidationError("Paste ID is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(in.Content) > 10000 {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = "Anonymous"
	}

	comment := &models.Comment{
		PasteID: in.PasteID,
		Author:  author,
		Content: in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, pasteID string) ([]*models.Comment, error) {
	if strings.TrimSpace(pasteID) == "" {
		return nil, models.NewValidationError("Paste ID is required")
	}
	return s.commentRepo.ListByPaste(ctx, pasteID)
}

func (s *CommentService) DeleteComment(ctx context.Context, id uint) error {
	return s.commentRepo.Delete(ctx, id)
}
