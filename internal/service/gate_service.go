package service

import (
	"context"

	"kindred/internal/cache"
	"kindred/internal/models"
	"kindred/internal/observability"
	"kindred/internal/repository"
)

// GateService answers "is voice/video allowed" for a user pair and owns the
// communication-level upgrade rules.
type GateService struct {
	friendshipRepo   repository.FriendshipRepository
	subscriptionRepo repository.SubscriptionRepository
	cache            *cache.Service
}

// NewGateService returns a new GateService.
func NewGateService(
	friendshipRepo repository.FriendshipRepository,
	subscriptionRepo repository.SubscriptionRepository,
	cacheSvc *cache.Service,
) *GateService {
	return &GateService{
		friendshipRepo:   friendshipRepo,
		subscriptionRepo: subscriptionRepo,
		cache:            cacheSvc,
	}
}

type subscriptionLookup struct {
	sub *models.Subscription
	err error
}

// HasActiveSubscription reports whether either user holds an active premium
// subscription. Both ledger rows are queried concurrently; a missing row means
// "no subscription", never an error.
func (s *GateService) HasActiveSubscription(ctx context.Context, userA, userB uint) (bool, error) {
	results := make(chan subscriptionLookup, 2)
	for _, id := range []uint{userA, userB} {
		go func(userID uint) {
			sub, err := s.subscriptionRepo.GetByUser(ctx, userID)
			results <- subscriptionLookup{sub: sub, err: err}
		}(id)
	}

	active := false
	var firstErr error
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
		if r.sub.IsActivePremium() {
			active = true
		}
	}
	if active {
		return true, nil
	}
	return false, firstErr
}

// IsVoiceUnlocked reports whether a voice call between the pair is allowed:
// true iff a non-blocked friendship exists. The interaction threshold only
// advances the recorded communication level shown to clients; it does not gate
// voice here.
func (s *GateService) IsVoiceUnlocked(ctx context.Context, userA, userB uint) (bool, error) {
	friendship, err := s.friendshipRepo.GetByPair(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	allowed := friendship != nil && !friendship.Blocked
	observability.RecordGateDecision("voice", allowed)
	return allowed, nil
}

// IsVideoUnlocked reports whether a video call between the pair is allowed.
// This is a check-and-upgrade: when the check passes through an active
// subscription and the stored level is not yet video, the level is persisted
// as video before returning. Repeated calls converge with no further writes.
func (s *GateService) IsVideoUnlocked(ctx context.Context, userA, userB uint) (bool, error) {
	friendship, err := s.friendshipRepo.GetByPair(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	if friendship == nil || friendship.Blocked {
		observability.RecordGateDecision("video", false)
		return false, nil
	}
	if friendship.CommunicationLevel == models.CommunicationLevelVideo {
		observability.RecordGateDecision("video", true)
		return true, nil
	}

	active, err := s.HasActiveSubscription(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	if !active {
		observability.RecordGateDecision("video", false)
		return false, nil
	}

	if err := s.upgradeLevel(ctx, friendship, models.CommunicationLevelVideo); err != nil {
		return false, err
	}
	observability.RecordGateDecision("video", true)
	return true, nil
}

// IncrementInteraction records one qualifying exchange between the pair. Once
// the count reaches the voice threshold a chat-level friendship advances to
// voice. Called by external collaborators (completed calls, message exchanges).
func (s *GateService) IncrementInteraction(ctx context.Context, userA, userB uint) (*models.Friendship, error) {
	friendship, err := s.friendshipRepo.GetByPair(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	if friendship == nil {
		return nil, models.NewNotFoundError(models.CodeFriendshipNotFound, "Friendship", models.PairKey(userA, userB))
	}

	friendship.InteractionCount++
	values := map[string]interface{}{"interaction_count": friendship.InteractionCount}
	if friendship.InteractionCount >= models.VoiceInteractionThreshold &&
		friendship.CommunicationLevel == models.CommunicationLevelChat {
		friendship.CommunicationLevel = models.CommunicationLevelVoice
		values["communication_level"] = models.CommunicationLevelVoice
	}
	if err := s.friendshipRepo.Updates(ctx, friendship.ID, values); err != nil {
		return nil, err
	}
	s.cache.InvalidateFriendship(ctx, friendship.User1ID, friendship.User2ID)
	return friendship, nil
}

// UnlockVideo is the throwing variant of IsVideoUnlocked, used when video must
// be guaranteed rather than merely checked.
func (s *GateService) UnlockVideo(ctx context.Context, userA, userB uint) (*models.Friendship, error) {
	friendship, err := s.friendshipRepo.GetByPair(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	if friendship == nil {
		return nil, models.NewNotFoundError(models.CodeFriendshipNotFound, "Friendship", models.PairKey(userA, userB))
	}

	active, err := s.HasActiveSubscription(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, &models.AppError{
			Code:    models.CodeSubscriptionRequired,
			Message: "An active premium subscription is required to unlock video",
		}
	}

	if friendship.CommunicationLevel != models.CommunicationLevelVideo {
		if err := s.upgradeLevel(ctx, friendship, models.CommunicationLevelVideo); err != nil {
			return nil, err
		}
	}
	return friendship, nil
}

func (s *GateService) upgradeLevel(ctx context.Context, friendship *models.Friendship, level models.CommunicationLevel) error {
	if err := s.friendshipRepo.Updates(ctx, friendship.ID, map[string]interface{}{
		"communication_level": level,
	}); err != nil {
		return err
	}
	friendship.CommunicationLevel = level
	s.cache.InvalidateFriendship(ctx, friendship.User1ID, friendship.User2ID)
	return nil
}
