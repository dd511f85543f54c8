package service

import (
	"context"
	"time"

	"kindred/internal/cache"
	"kindred/internal/middleware"
	"kindred/internal/models"
	"kindred/internal/observability"
	"kindred/internal/repository"
)

// SubscriptionService applies billing transitions reported by the external
// billing collaborator and cascades plan changes into friendship levels.
type SubscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	friendshipRepo   repository.FriendshipRepository
	cache            *cache.Service
}

// NewSubscriptionService returns a new SubscriptionService.
func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	friendshipRepo repository.FriendshipRepository,
	cacheSvc *cache.Service,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		friendshipRepo:   friendshipRepo,
		cache:            cacheSvc,
	}
}

// Get returns the user's subscription, lazily created as free/active.
func (s *SubscriptionService) Get(ctx context.Context, userID uint) (*models.Subscription, error) {
	return s.subscriptionRepo.GetOrCreate(ctx, userID)
}

// Create upgrades the user to an active premium subscription and cascades the
// upgrade to their friendships.
func (s *SubscriptionService) Create(ctx context.Context, userID uint) (*models.Subscription, error) {
	subscription, err := s.subscriptionRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subscription.IsActivePremium() {
		return nil, models.NewConflictError(models.CodeSubscriptionExists, "An active premium subscription already exists")
	}

	subscription.Plan = models.SubscriptionPlanPremium
	subscription.Status = models.SubscriptionStatusActive
	subscription.StartDate = time.Now()
	subscription.EndDate = nil
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, err
	}

	s.OnSubscriptionActivated(ctx, userID)
	return subscription, nil
}

// Cancel ends the user's premium subscription and cascades downgrades.
func (s *SubscriptionService) Cancel(ctx context.Context, userID uint) (*models.Subscription, error) {
	subscription, err := s.subscriptionRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !subscription.IsActivePremium() {
		return nil, &models.AppError{
			Code:    models.CodeNoSubscription,
			Message: "No active premium subscription to cancel",
		}
	}

	now := time.Now()
	subscription.Status = models.SubscriptionStatusCancelled
	subscription.EndDate = &now
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, err
	}

	s.OnSubscriptionDeactivated(ctx, userID)
	return subscription, nil
}

// OnRenewalSucceeded records a successful billing renewal. A past-due premium
// subscription returns to active and regains video.
func (s *SubscriptionService) OnRenewalSucceeded(ctx context.Context, userID uint) (*models.Subscription, error) {
	subscription, err := s.subscriptionRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subscription == nil || subscription.Plan != models.SubscriptionPlanPremium {
		return nil, &models.AppError{
			Code:    models.CodeNoSubscription,
			Message: "No premium subscription to renew",
		}
	}

	subscription.Status = models.SubscriptionStatusActive
	subscription.EndDate = nil
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, err
	}

	s.OnSubscriptionActivated(ctx, userID)
	return subscription, nil
}

// OnRenewalFailed records a failed billing renewal. The subscription moves to
// past_due, which no longer satisfies the active-premium predicate.
func (s *SubscriptionService) OnRenewalFailed(ctx context.Context, userID uint) (*models.Subscription, error) {
	subscription, err := s.subscriptionRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subscription == nil || subscription.Plan != models.SubscriptionPlanPremium {
		return nil, &models.AppError{
			Code:    models.CodeNoSubscription,
			Message: "No premium subscription to renew",
		}
	}

	subscription.Status = models.SubscriptionStatusPastDue
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, err
	}

	s.OnSubscriptionDeactivated(ctx, userID)
	return subscription, nil
}

// OnSubscriptionActivated raises every non-blocked friendship of the user that
// is not already at video to video. Idempotent: already-correct rows are
// skipped, so webhook retries are safe. Per-row failures are logged and the
// cascade continues; a later re-run converges.
func (s *SubscriptionService) OnSubscriptionActivated(ctx context.Context, userID uint) {
	done := observability.TrackCascade("activate")
	touched := 0
	defer func() { done(touched) }()

	friendships, err := s.friendshipRepo.ListByUser(ctx, userID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "subscription activation cascade: listing friendships failed", "user_id", userID, "error", err)
		return
	}

	for _, f := range friendships {
		if f.Blocked || f.CommunicationLevel == models.CommunicationLevelVideo {
			continue
		}
		if err := s.friendshipRepo.Updates(ctx, f.ID, map[string]interface{}{
			"communication_level": models.CommunicationLevelVideo,
		}); err != nil {
			middleware.Logger.ErrorContext(ctx, "subscription activation cascade: upgrade failed", "friendship_id", f.ID, "error", err)
			continue
		}
		touched++
	}

	// Sweep the whole keyspace once rather than per pair so a partially failed
	// cascade still leaves no stale entries behind.
	if err := s.cache.InvalidateUserFriendships(ctx, userID); err != nil {
		middleware.Logger.WarnContext(ctx, "subscription activation cascade: cache sweep failed", "user_id", userID, "error", err)
	}
}

// OnSubscriptionDeactivated re-evaluates every non-blocked video friendship of
// the user. Friendships whose counterpart independently holds an active
// subscription keep video; the rest fall back to voice when the interaction
// threshold was reached, chat otherwise. Idempotent per friendship.
func (s *SubscriptionService) OnSubscriptionDeactivated(ctx context.Context, userID uint) {
	done := observability.TrackCascade("deactivate")
	touched := 0
	defer func() { done(touched) }()

	friendships, err := s.friendshipRepo.ListByUser(ctx, userID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "subscription deactivation cascade: listing friendships failed", "user_id", userID, "error", err)
		return
	}

	for _, f := range friendships {
		if f.Blocked || f.CommunicationLevel != models.CommunicationLevelVideo {
			continue
		}

		counterpart, err := s.subscriptionRepo.GetByUser(ctx, f.OtherUserID(userID))
		if err != nil {
			middleware.Logger.ErrorContext(ctx, "subscription deactivation cascade: counterpart lookup failed", "friendship_id", f.ID, "error", err)
			continue
		}
		if counterpart.IsActivePremium() {
			continue
		}

		level := models.LevelForInteractions(f.InteractionCount)
		if err := s.friendshipRepo.Updates(ctx, f.ID, map[string]interface{}{
			"communication_level": level,
		}); err != nil {
			middleware.Logger.ErrorContext(ctx, "subscription deactivation cascade: downgrade failed", "friendship_id", f.ID, "error", err)
			continue
		}
		touched++
	}

	if err := s.cache.InvalidateUserFriendships(ctx, userID); err != nil {
		middleware.Logger.WarnContext(ctx, "subscription deactivation cascade: cache sweep failed", "user_id", userID, "error", err)
	}
}
