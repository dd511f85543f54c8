package repository

import (
	"context"
	"errors"

	"kindred/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendshipRepository defines the interface for friendship data operations
type FriendshipRepository interface {
	// CreateIfAbsent inserts the friendship unless one already exists for the
	// pair. Returns the persisted row and whether this call created it.
	CreateIfAbsent(ctx context.Context, friendship *models.Friendship) (*models.Friendship, bool, error)
	GetByID(ctx context.Context, id uint) (*models.Friendship, error)
	GetByPair(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Friendship, error)
	Updates(ctx context.Context, id uint, values map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository creates a new friendship repository
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) CreateIfAbsent(ctx context.Context, friendship *models.Friendship) (*models.Friendship, bool, error) {
	// Atomic conditional insert on the canonical pair key; losing an
	// accept-race degrades to a lookup of the winner's row.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_key"}},
			DoNothing: true,
		}).
		Create(friendship)
	if result.Error != nil {
		return nil, false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		existing, err := r.GetByPair(ctx, friendship.User1ID, friendship.User2ID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, models.NewInternalError(errors.New("friendship insert conflicted but pair lookup found nothing"))
		}
		return existing, false, nil
	}
	return friendship, true, nil
}

func (r *friendshipRepository) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		First(&friendship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.CodeFriendshipNotFound, "Friendship", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

// GetByPair finds the friendship for an unordered user pair via the canonical
// pair key, so both lookup directions hit the same row. Returns (nil, nil)
// when no friendship exists.
func (r *friendshipRepository) GetByPair(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).
		Where("pair_key = ?", models.PairKey(userID1, userID2)).
		Preload("User1").
		Preload("User2").
		First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

func (r *friendshipRepository) ListByUser(ctx context.Context, userID uint) ([]models.Friendship, error) {
	var friendships []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Preload("User1").
		Preload("User2").
		Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return friendships, nil
}

func (r *friendshipRepository) Updates(ctx context.Context, id uint, values map[string]interface{}) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", id).
		Updates(values).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendshipRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Friendship{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
