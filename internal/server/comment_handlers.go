package server

import (
	"darkbin/internal/models"
	"darkbin/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/pastes/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.Context(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/pastes/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req service.CreateCommentInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	req.PasteID = c.Params("id")

	comment, err := s.commentService.CreateComment(c.Context(), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("commentId")
	if err != nil || id <= 0 {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid comment ID"))
	}

	if err := s.commentService.DeleteComment(c.Context(), uint(id)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": id})
}
