package server

import (
	"darkbin/internal/models"
	"darkbin/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePaste handles POST /api/pastes
func (s *Server) CreatePaste(c *fiber.Ctx) error {
	var req service.CreatePasteInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	// A logged-in caller owns the paste regardless of what the body claims.
	if userID, ok := c.Locals("userID").(string); ok && userID != "" {
		req.OwnerID = userID
	}

	paste, err := s.pasteService.CreatePaste(c.Context(), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(paste)
}

// GetPastes handles GET /api/pastes with optional search, category, tag,
// user_id, and sort query parameters.
func (s *Server) GetPastes(c *fiber.Ctx) error {
	pastes, err := s.pasteService.ListPastes(c.Context(), service.ListPastesInput{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		OwnerID:  c.Query("user_id"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(pastes)
}

// GetPaste handles GET /api/pastes/:id. Fetching counts a view.
func (s *Server) GetPaste(c *fiber.Ctx) error {
	paste, err := s.pasteService.GetPaste(c.Context(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(paste)
}

// DeletePaste handles DELETE /api/pastes/:id. Like pin, the route is open:
// deletion succeeds or reports not-found, with no ownership check beyond
// attribution.
func (s *Server) DeletePaste(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := s.pasteService.DeletePaste(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": id})
}

// SetPinned handles POST /api/pastes/:id/pin
func (s *Server) SetPinned(c *fiber.Ctx) error {
	var req struct {
		Pinned bool   `json:"pinned"`
		Role   string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	role := s.requesterRole(c, req.Role)
	paste, err := s.pasteService.SetPinned(c.Context(), c.Params("id"), req.Pinned, role)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(paste)
}

// ToggleLike handles POST /api/pastes/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	// Authenticated callers like as themselves.
	if userID, ok := c.Locals("userID").(string); ok && userID != "" {
		req.UserID = userID
	}

	result, err := s.pasteService.ToggleLike(c.Context(), c.Params("id"), req.UserID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}
