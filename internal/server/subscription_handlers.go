package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMySubscription handles GET /api/subscriptions/me. The ledger row is
// created lazily as free/active on first read.
func (s *Server) GetMySubscription(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	subscription, err := s.subscriptionService.Get(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(subscription)
}

// CreateSubscription handles POST /api/subscriptions/create
func (s *Server) CreateSubscription(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	subscription, err := s.subscriptionService.Create(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(subscription)
}

// CancelSubscription handles POST /api/subscriptions/cancel
func (s *Server) CancelSubscription(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	subscription, err := s.subscriptionService.Cancel(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(subscription)
}

// RenewalSucceeded handles POST /api/subscriptions/renewal/succeeded, the
// entry point for the external billing collaborator's renewal webhooks.
func (s *Server) RenewalSucceeded(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	subscription, err := s.subscriptionService.OnRenewalSucceeded(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(subscription)
}

// RenewalFailed handles POST /api/subscriptions/renewal/failed
func (s *Server) RenewalFailed(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	subscription, err := s.subscriptionService.OnRenewalFailed(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(subscription)
}
