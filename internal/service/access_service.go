package service

import (
	"context"
	"errors"

	"kindred/internal/cache"
	"kindred/internal/middleware"
	"kindred/internal/models"
	"kindred/internal/repository"
)

// AccessService resolves how much of a target's profile a viewer may see.
type AccessService struct {
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
	cache          *cache.Service
}

// NewAccessService returns a new AccessService.
func NewAccessService(
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
	cacheSvc *cache.Service,
) *AccessService {
	return &AccessService{
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		cache:          cacheSvc,
	}
}

// friendshipStatus is the cached friendship-existence entry for a pair.
type friendshipStatus struct {
	Exists  bool `json:"exists"`
	Blocked bool `json:"blocked"`
}

const maxMutualFriends = 3

// Resolve computes the access tier for viewer looking at target and builds the
// disclosed field set. Friendship existence goes through the cache since
// profile views are the hottest read path; mutual-friend metadata is
// best-effort and degrades to zero on failure.
func (s *AccessService) Resolve(ctx context.Context, viewerID, targetID uint) (*models.ProfileResponse, error) {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeUserNotFound {
			return nil, models.NewNotFoundError(models.CodeProfileNotFound, "Profile", targetID)
		}
		return nil, err
	}

	if viewerID == targetID {
		return &models.ProfileResponse{
			Profile:       ownView(target),
			AccessLevel:   models.AccessLevelOwn,
			MutualFriends: []models.MutualFriend{},
		}, nil
	}

	var status friendshipStatus
	err = s.cache.ReadThrough(ctx, "friendship", cache.FriendshipKey(viewerID, targetID), &status, cache.FriendshipTTL, func() error {
		friendship, err := s.friendshipRepo.GetByPair(ctx, viewerID, targetID)
		if err != nil {
			return err
		}
		status = friendshipStatus{
			Exists:  friendship != nil,
			Blocked: friendship != nil && friendship.Blocked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := &models.ProfileResponse{
		Profile:       previewView(target),
		AccessLevel:   models.AccessLevelPreview,
		MutualFriends: []models.MutualFriend{},
	}
	if status.Exists && !status.Blocked {
		response.Profile = connectedView(target)
		response.AccessLevel = models.AccessLevelConnected
	}

	mutuals, count, err := s.mutualFriends(ctx, viewerID, targetID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "mutual friend computation failed", "viewer_id", viewerID, "target_id", targetID, "error", err)
	} else {
		response.MutualFriends = mutuals
		response.MutualCount = count
	}
	return response, nil
}

// mutualFriends intersects the two users' non-blocked friendship counterparties,
// excluding each other, and names up to maxMutualFriends of them.
func (s *AccessService) mutualFriends(ctx context.Context, viewerID, targetID uint) ([]models.MutualFriend, int, error) {
	viewerSet, err := s.counterparties(ctx, viewerID, targetID)
	if err != nil {
		return nil, 0, err
	}
	targetSet, err := s.counterparties(ctx, targetID, viewerID)
	if err != nil {
		return nil, 0, err
	}

	var shared []uint
	for id := range viewerSet {
		if targetSet[id] {
			shared = append(shared, id)
		}
	}
	if len(shared) == 0 {
		return []models.MutualFriend{}, 0, nil
	}

	sample := shared
	if len(sample) > maxMutualFriends {
		sample = sample[:maxMutualFriends]
	}
	users, err := s.userRepo.GetByIDs(ctx, sample)
	if err != nil {
		return nil, 0, err
	}

	mutuals := make([]models.MutualFriend, 0, len(users))
	for _, u := range users {
		mutuals = append(mutuals, models.MutualFriend{ID: u.ID, Name: u.Name})
	}
	return mutuals, len(shared), nil
}

func (s *AccessService) counterparties(ctx context.Context, userID, exclude uint) (map[uint]bool, error) {
	friendships, err := s.friendshipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(friendships))
	for _, f := range friendships {
		if f.Blocked {
			continue
		}
		other := f.OtherUserID(userID)
		if other != exclude {
			set[other] = true
		}
	}
	return set, nil
}

// ownView discloses everything, including owner-only contact fields.
func ownView(u *models.User) models.ProfileView {
	v := connectedView(u)
	v.Email = &u.Email
	v.Phone = &u.Phone
	return v
}

// connectedView discloses the full profile minus owner-only contact fields.
func connectedView(u *models.User) models.ProfileView {
	v := previewView(u)
	v.Age = &u.Age
	v.Religion = &u.Religion
	v.Place = &u.Place
	v.Skills = &u.Skills
	v.Photos = &u.Photos
	v.Achievements = &u.Achievements
	v.College = &u.College
	v.Company = &u.Company
	v.Website = &u.Website
	return v
}

// previewView discloses identity basics only. Withheld fields stay nil so they
// are absent from the JSON body rather than nulled.
func previewView(u *models.User) models.ProfileView {
	return models.ProfileView{
		ID:         u.ID,
		Name:       u.Name,
		Profession: u.Profession,
		Bio:        u.Bio,
		Verified:   u.Verified,
	}
}
