package server

import (
	"time"

	"kindred/internal/models"

	"github.com/gofiber/fiber/v2"
)

type sendConnectionRequestBody struct {
	ReceiverID uint `json:"receiver_id"`
}

// SendConnectionRequest handles POST /api/connections
func (s *Server) SendConnectionRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var body sendConnectionRequestBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, err := s.connectionService.Send(ctx, userID, body.ReceiverID)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Notify the receiver so UI updates immediately.
	s.publishUserEvent(request.ReceiverID, EventNotificationNew, map[string]interface{}{
		"kind":       "connection_request",
		"request_id": request.ID,
		"from_user":  userSummary(request.Sender),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetPendingConnections handles GET /api/connections/pending
func (s *Server) GetPendingConnections(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	received, sent, err := s.connectionService.ListPending(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"received": received,
		"sent":     sent,
	})
}

// AcceptConnectionRequest handles PUT /api/connections/:id/accept
func (s *Server) AcceptConnectionRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, acceptErr := s.connectionService.Accept(ctx, requestID, userID)
	if acceptErr != nil {
		return respondServiceError(c, acceptErr)
	}

	if result.Created {
		// Notify both parties and ask the chat collaborator for a channel.
		// All best-effort: none of these may fail the accept.
		establishedAt := result.Friendship.EstablishedAt.UTC().Format(time.RFC3339Nano)
		s.publishUserEvent(result.Request.SenderID, EventFriendshipEstablished, map[string]interface{}{
			"friendship_id":       result.Friendship.ID,
			"friend":              userSummary(result.Request.Receiver),
			"communication_level": result.Friendship.CommunicationLevel,
			"established_at":      establishedAt,
		})
		s.publishUserEvent(result.Request.ReceiverID, EventFriendshipEstablished, map[string]interface{}{
			"friendship_id":       result.Friendship.ID,
			"friend":              userSummary(result.Request.Sender),
			"communication_level": result.Friendship.CommunicationLevel,
			"established_at":      establishedAt,
		})
		s.requestChatChannel(result.Request.SenderID, result.Request.ReceiverID)
	}

	return c.JSON(result)
}

// DeclineConnectionRequest handles PUT /api/connections/:id/decline
func (s *Server) DeclineConnectionRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	request, declineErr := s.connectionService.Decline(ctx, requestID, userID)
	if declineErr != nil {
		return respondServiceError(c, declineErr)
	}
	return c.JSON(request)
}

// CancelConnectionRequest handles DELETE /api/connections/:id
func (s *Server) CancelConnectionRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if cancelErr := s.connectionService.Cancel(ctx, requestID, userID); cancelErr != nil {
		return respondServiceError(c, cancelErr)
	}
	return c.JSON(fiber.Map{"message": "Connection request cancelled"})
}
