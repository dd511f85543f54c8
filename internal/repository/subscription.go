package repository

import (
	"context"
	"errors"
	"time"

	"kindred/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	// GetOrCreate returns the user's subscription, lazily creating a free
	// active record the first time the user is seen.
	GetOrCreate(ctx context.Context, userID uint) (*models.Subscription, error)
	// GetByUser returns (nil, nil) when the user has no subscription record.
	GetByUser(ctx context.Context, userID uint) (*models.Subscription, error)
	Save(ctx context.Context, subscription *models.Subscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetOrCreate(ctx context.Context, userID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := r.db.WithContext(ctx).
		Where(models.Subscription{UserID: userID}).
		Attrs(models.Subscription{
			Plan:      models.SubscriptionPlanFree,
			Status:    models.SubscriptionStatusActive,
			StartDate: time.Now(),
		}).
		FirstOrCreate(&subscription).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &subscription, nil
}

func (r *subscriptionRepository) GetByUser(ctx context.Context, userID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &subscription, nil
}

func (r *subscriptionRepository) Save(ctx context.Context, subscription *models.Subscription) error {
	if err := r.db.WithContext(ctx).Save(subscription).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
