package server

import (
	"time"

	"kindred/internal/models"

	"github.com/gofiber/fiber/v2"
)

type initiateCallBody struct {
	CalleeID uint   `json:"callee_id"`
	Type     string `json:"type"`
}

// InitiateCall handles POST /api/calls
func (s *Server) InitiateCall(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var body initiateCallBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	call, err := s.callService.Initiate(ctx, userID, body.CalleeID, models.CallType(body.Type))
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishCallEvent(call.CalleeID, map[string]interface{}{
		"session_id": call.SessionID,
		"caller_id":  call.CallerID,
		"type":       call.Type,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(call)
}

// GetCallHistory handles GET /api/calls
func (s *Server) GetCallHistory(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	limit := c.QueryInt("limit", 50)

	calls, err := s.callService.History(ctx, userID, limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"calls": calls,
		"total": len(calls),
	})
}
