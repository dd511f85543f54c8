package service

import (
	"context"

	"kindred/internal/cache"
	"kindred/internal/models"
	"kindred/internal/repository"
)

// UserService provides profile read/update operations for the owning user.
type UserService struct {
	userRepo repository.UserRepository
	cache    *cache.Service
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, cacheSvc *cache.Service) *UserService {
	return &UserService{userRepo: userRepo, cache: cacheSvc}
}

// ProfileUpdate carries the updatable profile fields. Nil pointers leave the
// stored value untouched.
type ProfileUpdate struct {
	Name         *string   `json:"name"`
	Phone        *string   `json:"phone"`
	Age          *int      `json:"age"`
	Religion     *string   `json:"religion"`
	Place        *string   `json:"place"`
	Skills       *[]string `json:"skills"`
	Profession   *string   `json:"profession"`
	Bio          *string   `json:"bio"`
	Photos       *[]string `json:"photos"`
	Achievements *[]string `json:"achievements"`
	College      *string   `json:"college"`
	Company      *string   `json:"company"`
	Website      *string   `json:"website"`
}

// UpdateProfile applies the patch to the user's profile and synchronously
// invalidates the cached profile entry before returning.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Age != nil {
		if *update.Age < 0 {
			return nil, models.NewValidationError("Age cannot be negative")
		}
		user.Age = *update.Age
	}
	if update.Religion != nil {
		user.Religion = *update.Religion
	}
	if update.Place != nil {
		user.Place = *update.Place
	}
	if update.Skills != nil {
		user.Skills = *update.Skills
	}
	if update.Profession != nil {
		user.Profession = *update.Profession
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Photos != nil {
		user.Photos = *update.Photos
	}
	if update.Achievements != nil {
		user.Achievements = *update.Achievements
	}
	if update.College != nil {
		user.College = *update.College
	}
	if update.Company != nil {
		user.Company = *update.Company
	}
	if update.Website != nil {
		user.Website = *update.Website
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.cache.InvalidateProfile(ctx, userID)
	return user, nil
}
