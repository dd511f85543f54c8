package repository

import (
	"context"

	"kindred/internal/models"

	"gorm.io/gorm"
)

// CallRepository defines the interface for call data operations
type CallRepository interface {
	Create(ctx context.Context, call *models.Call) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Call, error)
}

type callRepository struct {
	db *gorm.DB
}

// NewCallRepository creates a new call repository
func NewCallRepository(db *gorm.DB) CallRepository {
	return &callRepository{db: db}
}

func (r *callRepository) Create(ctx context.Context, call *models.Call) error {
	if err := r.db.WithContext(ctx).Create(call).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *callRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Call, error) {
	var calls []models.Call
	if err := r.db.WithContext(ctx).
		Where("caller_id = ? OR callee_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&calls).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return calls, nil
}
