package repository

import (
	"context"
	"errors"
	"time"

	"kindred/internal/models"

	"gorm.io/gorm"
)

// ConnectionRequestRepository defines the interface for connection request data operations
type ConnectionRequestRepository interface {
	Create(ctx context.Context, request *models.ConnectionRequest) error
	GetByID(ctx context.Context, id uint) (*models.ConnectionRequest, error)
	GetByPair(ctx context.Context, senderID, receiverID uint) (*models.ConnectionRequest, error)
	ListPendingReceived(ctx context.Context, userID uint) ([]models.ConnectionRequest, error)
	ListPendingSent(ctx context.Context, userID uint) ([]models.ConnectionRequest, error)
	Reopen(ctx context.Context, id uint) error
	SetStatus(ctx context.Context, id uint, status models.ConnectionRequestStatus) error
	Delete(ctx context.Context, id uint) error
}

type connectionRequestRepository struct {
	db *gorm.DB
}

// NewConnectionRequestRepository creates a new connection request repository
func NewConnectionRequestRepository(db *gorm.DB) ConnectionRequestRepository {
	return &connectionRequestRepository{db: db}
}

func (r *connectionRequestRepository) Create(ctx context.Context, request *models.ConnectionRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRequestRepository) GetByID(ctx context.Context, id uint) (*models.ConnectionRequest, error) {
	var request models.ConnectionRequest
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.CodeRequestNotFound, "Connection request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

// GetByPair finds the request with the exact (sender, receiver) ordering.
// Returns (nil, nil) when none exists.
func (r *connectionRequestRepository) GetByPair(ctx context.Context, senderID, receiverID uint) (*models.ConnectionRequest, error) {
	var request models.ConnectionRequest
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *connectionRequestRepository) ListPendingReceived(ctx context.Context, userID uint) ([]models.ConnectionRequest, error) {
	var requests []models.ConnectionRequest
	if err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.ConnectionRequestStatusPending).
		Preload("Sender").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *connectionRequestRepository) ListPendingSent(ctx context.Context, userID uint) ([]models.ConnectionRequest, error) {
	var requests []models.ConnectionRequest
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? AND status = ?", userID, models.ConnectionRequestStatusPending).
		Preload("Receiver").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

// Reopen resets a previously answered request back to pending with fresh timestamps.
func (r *connectionRequestRepository) Reopen(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).
		Model(&models.ConnectionRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.ConnectionRequestStatusPending,
			"created_at":   time.Now().UTC(),
			"responded_at": nil,
		}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRequestRepository) SetStatus(ctx context.Context, id uint, status models.ConnectionRequestStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.ConnectionRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": time.Now().UTC(),
		}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRequestRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.ConnectionRequest{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
