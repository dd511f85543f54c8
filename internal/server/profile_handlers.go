package server

import (
	"kindred/internal/models"
	"kindred/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:id. The response discloses only the
// fields the viewer's access tier permits; withheld fields are absent, not
// nulled.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	response, resolveErr := s.accessService.Resolve(ctx, userID, targetID)
	if resolveErr != nil {
		return respondServiceError(c, resolveErr)
	}
	return c.JSON(response)
}

// GetMyProfile handles GET /api/profiles/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	response, err := s.accessService.Resolve(ctx, userID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(response)
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var update service.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(ctx, userID, update)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
