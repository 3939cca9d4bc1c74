package server

import (
	"darkbin/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TriggerBackup handles POST /api/backup/pastes. It writes one snapshot
// outside the periodic schedule.
func (s *Server) TriggerBackup(c *fiber.Ctx) error {
	if s.exporter == nil {
		return models.RespondWithError(c,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}

	path, err := s.exporter.ExportOnce(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"path": path})
}
