package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFriends handles GET /api/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	friends, err := s.friendshipService.ListFriends(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"friends": friends,
		"total":   len(friends),
	})
}

// RemoveFriend handles DELETE /api/friendships/:id
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	friendshipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, removeErr := s.friendshipService.Remove(ctx, friendshipID, userID); removeErr != nil {
		return respondServiceError(c, removeErr)
	}
	return c.JSON(fiber.Map{"message": "Friend removed"})
}

// BlockFriend handles POST /api/friendships/:id/block
func (s *Server) BlockFriend(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	friendshipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	friendship, blockErr := s.friendshipService.Block(ctx, friendshipID, userID)
	if blockErr != nil {
		return respondServiceError(c, blockErr)
	}
	return c.JSON(friendship)
}

// UnblockFriend handles POST /api/friendships/:id/unblock
func (s *Server) UnblockFriend(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	friendshipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	friendship, unblockErr := s.friendshipService.Unblock(ctx, friendshipID, userID)
	if unblockErr != nil {
		return respondServiceError(c, unblockErr)
	}
	return c.JSON(friendship)
}

// UnlockVideo handles POST /api/friendships/:id/unlock-video. Unlike the
// passive check on call initiation, this guarantees the video level or fails
// with the reason it cannot be granted.
func (s *Server) UnlockVideo(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	friendshipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	friendship, getErr := s.friendshipService.Get(ctx, friendshipID, userID)
	if getErr != nil {
		return respondServiceError(c, getErr)
	}

	unlocked, unlockErr := s.gateService.UnlockVideo(ctx, friendship.User1ID, friendship.User2ID)
	if unlockErr != nil {
		return respondServiceError(c, unlockErr)
	}
	return c.JSON(unlocked)
}

// RecordInteraction handles POST /api/friendships/:id/interactions.
// Called by external collaborators (a completed call, a qualifying message
// exchange) to advance the interaction count for a friendship.
func (s *Server) RecordInteraction(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	friendshipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	friendship, getErr := s.friendshipService.Get(ctx, friendshipID, userID)
	if getErr != nil {
		return respondServiceError(c, getErr)
	}

	updated, incErr := s.gateService.IncrementInteraction(ctx, friendship.User1ID, friendship.User2ID)
	if incErr != nil {
		return respondServiceError(c, incErr)
	}
	return c.JSON(updated)
}
