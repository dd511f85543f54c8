package cache

import (
	"context"
	"fmt"
	"time"
)

// Key prefixes and TTLs for the cached entities. Pair-based keys always sort
// the two ids so either direction of lookup hits the same entry.
const (
	ProfileTTL    = 5 * time.Minute
	FriendshipTTL = 10 * time.Minute
	NearbyTTL     = 30 * time.Second
)

// ProfileKey returns the cache key for a user profile.
func ProfileKey(userID uint) string {
	return fmt.Sprintf("profile:%d", userID)
}

// FriendshipKey returns the canonical cache key for a friendship pair.
func FriendshipKey(userID1, userID2 uint) string {
	if userID2 < userID1 {
		userID1, userID2 = userID2, userID1
	}
	return fmt.Sprintf("friendship:%d:%d", userID1, userID2)
}

// NearbyKey returns the cache key for a nearby-users result set.
func NearbyKey(cell string) string {
	return fmt.Sprintf("nearby:%s", cell)
}

// InvalidateProfile drops a user's cached profile.
func (s *Service) InvalidateProfile(ctx context.Context, userID uint) {
	s.Invalidate(ctx, ProfileKey(userID))
}

// InvalidateFriendship drops the pair's friendship-existence entry. Called on
// every friendship write (create, block, unblock, level change, delete).
func (s *Service) InvalidateFriendship(ctx context.Context, userID1, userID2 uint) {
	s.Invalidate(ctx, FriendshipKey(userID1, userID2))
}

// InvalidateUserFriendships drops every friendship entry touching the user.
// Used when a user's account state changes broadly; the scan is cursor-based
// so it does not block other cache operations.
func (s *Service) InvalidateUserFriendships(ctx context.Context, userID uint) error {
	if err := s.InvalidatePattern(ctx, fmt.Sprintf("friendship:%d:*", userID)); err != nil {
		return err
	}
	return s.InvalidatePattern(ctx, fmt.Sprintf("friendship:*:%d", userID))
}
