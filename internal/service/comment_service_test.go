package service

import (
	"context"
	"testing"

	"darkbin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	var created *models.Comment
	repo := noopCommentRepo()
	repo.createFn = func(_ context.Context, c *models.Comment) error {
		created = c
		return nil
	}

	svc := NewCommentService(repo)

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		PasteID: "p1",
		Content: "nice paste",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Anonymous", comment.Author, "missing author defaults to Anonymous")
	assert.Equal(t, "p1", comment.PasteID)
}

func TestCommentService_CreateComment_Validation(t *testing.T) {
	svc := NewCommentService(noopCommentRepo())
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, CreateCommentInput{PasteID: "", Content: "x"})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, err.(*models.AppError).Code)

	_, err = svc.CreateComment(ctx, CreateCommentInput{PasteID: "p1", Content: "  "})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, err.(*models.AppError).Code)
}

func TestCommentService_ListComments(t *testing.T) {
	repo := noopCommentRepo()
	repo.listByPasteFn = func(_ context.Context, pasteID string) ([]*models.Comment, error) {
		assert.Equal(t, "p1", pasteID)
		return []*models.Comment{{ID: 1}, {ID: 2}}, nil
	}

	svc := NewCommentService(repo)

	comments, err := svc.ListComments(context.Background(), "p1")
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}
