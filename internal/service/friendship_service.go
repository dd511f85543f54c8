package service

import (
	"context"
	"time"

	"kindred/internal/cache"
	"kindred/internal/models"
	"kindred/internal/repository"
)

// FriendshipService manages established friendships: listing, removal and
// blocking.
type FriendshipService struct {
	friendshipRepo repository.FriendshipRepository
	cache          *cache.Service
}

// NewFriendshipService returns a new FriendshipService.
func NewFriendshipService(friendshipRepo repository.FriendshipRepository, cacheSvc *cache.Service) *FriendshipService {
	return &FriendshipService{friendshipRepo: friendshipRepo, cache: cacheSvc}
}

// FriendEntry is one row of a user's friend list. Both participants observe
// the same friendship id, level and establishment time.
type FriendEntry struct {
	FriendshipID       uint                      `json:"friendship_id"`
	Friend             models.User               `json:"friend"`
	CommunicationLevel models.CommunicationLevel `json:"communication_level"`
	InteractionCount   int                       `json:"interaction_count"`
	EstablishedAt      time.Time                 `json:"established_at"`
}

// ListFriends returns the user's non-blocked friendships with the counterpart
// user attached.
func (s *FriendshipService) ListFriends(ctx context.Context, userID uint) ([]FriendEntry, error) {
	friendships, err := s.friendshipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]FriendEntry, 0, len(friendships))
	for _, f := range friendships {
		if f.Blocked {
			continue
		}
		friend := f.User1
		if f.User1ID == userID {
			friend = f.User2
		}
		entries = append(entries, FriendEntry{
			FriendshipID:       f.ID,
			Friend:             friend,
			CommunicationLevel: f.CommunicationLevel,
			InteractionCount:   f.InteractionCount,
			EstablishedAt:      f.EstablishedAt,
		})
	}
	return entries, nil
}

// Get returns the friendship if the acting user is one of its participants.
func (s *FriendshipService) Get(ctx context.Context, friendshipID, actingUserID uint) (*models.Friendship, error) {
	friendship, err := s.friendshipRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if !friendship.Involves(actingUserID) {
		return nil, models.NewForbiddenError("You are not a participant of this friendship")
	}
	return friendship, nil
}

// Remove deletes the friendship. Either participant may remove it; both sides
// drop back to preview-level profile access.
func (s *FriendshipService) Remove(ctx context.Context, friendshipID, actingUserID uint) (*models.Friendship, error) {
	friendship, err := s.Get(ctx, friendshipID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := s.friendshipRepo.Delete(ctx, friendshipID); err != nil {
		return nil, err
	}
	s.cache.InvalidateFriendship(ctx, friendship.User1ID, friendship.User2ID)
	return friendship, nil
}

// Block marks the friendship blocked. Idempotent.
func (s *FriendshipService) Block(ctx context.Context, friendshipID, actingUserID uint) (*models.Friendship, error) {
	return s.setBlocked(ctx, friendshipID, actingUserID, true)
}

// Unblock clears a block. Idempotent.
func (s *FriendshipService) Unblock(ctx context.Context, friendshipID, actingUserID uint) (*models.Friendship, error) {
	return s.setBlocked(ctx, friendshipID, actingUserID, false)
}

func (s *FriendshipService) setBlocked(ctx context.Context, friendshipID, actingUserID uint, blocked bool) (*models.Friendship, error) {
	friendship, err := s.Get(ctx, friendshipID, actingUserID)
	if err != nil {
		return nil, err
	}
	if friendship.Blocked == blocked {
		return friendship, nil
	}
	if err := s.friendshipRepo.Updates(ctx, friendshipID, map[string]interface{}{"blocked": blocked}); err != nil {
		return nil, err
	}
	friendship.Blocked = blocked
	s.cache.InvalidateFriendship(ctx, friendship.User1ID, friendship.User2ID)
	return friendship, nil
}
