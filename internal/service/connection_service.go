package service

import (
	"context"

	"kindred/internal/cache"
	"kindred/internal/models"
	"kindred/internal/repository"
)

// ConnectionService runs the connection-request state machine and materializes
// friendships on acceptance.
type ConnectionService struct {
	connectionRepo repository.ConnectionRequestRepository
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
	gate           *GateService
	cache          *cache.Service
}

// NewConnectionService returns a new ConnectionService.
func NewConnectionService(
	connectionRepo repository.ConnectionRequestRepository,
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	gate *GateService,
	cacheSvc *cache.Service,
) *ConnectionService {
	return &ConnectionService{
		connectionRepo: connectionRepo,
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		gate:           gate,
		cache:          cacheSvc,
	}
}

// AcceptResult is the outcome of accepting a connection request. Created is
// false when the pair's friendship already existed (a mirrored request was
// accepted first), in which case the existing friendship is returned.
type AcceptResult struct {
	Request    *models.ConnectionRequest `json:"request"`
	Friendship *models.Friendship        `json:"friendship"`
	Created    bool                      `json:"-"`
}

// Send creates (or reopens) a pending connection request from sender to
// receiver.
func (s *ConnectionService) Send(ctx context.Context, senderID, receiverID uint) (*models.ConnectionRequest, error) {
	if receiverID == 0 {
		return nil, models.NewValidationError("A receiver id is required")
	}
	if senderID == receiverID {
		return nil, models.NewValidationError("Cannot send a connection request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	friendship, err := s.friendshipRepo.GetByPair(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if friendship != nil {
		return nil, models.NewConflictError(models.CodeAlreadyFriends, "You are already connected with this user")
	}

	existing, err := s.connectionRepo.GetByPair(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.ConnectionRequestStatusPending {
			return nil, models.NewConflictError(models.CodeRequestExists, "A pending connection request to this user already exists")
		}
		// Declined, or accepted but no longer friended: resend reopens the row.
		if err := s.connectionRepo.Reopen(ctx, existing.ID); err != nil {
			return nil, err
		}
		return s.connectionRepo.GetByID(ctx, existing.ID)
	}

	request := &models.ConnectionRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.ConnectionRequestStatusPending,
	}
	if err := s.connectionRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return s.connectionRepo.GetByID(ctx, request.ID)
}

// Accept marks the request accepted and ensures exactly one friendship exists
// for the pair. The initial communication level is video when either party
// holds an active subscription at acceptance time, chat otherwise. Creation is
// an atomic insert-if-absent, so accepting mirrored requests concurrently
// yields one friendship and the loser returns the winner's row.
func (s *ConnectionService) Accept(ctx context.Context, requestID, actingUserID uint) (*AcceptResult, error) {
	request, err := s.connectionRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ReceiverID != actingUserID {
		return nil, models.NewForbiddenError("Only the receiver may accept a connection request")
	}
	if request.Status != models.ConnectionRequestStatusPending {
		return nil, models.NewInvalidStatusError("Connection request is not pending")
	}

	if err := s.connectionRepo.SetStatus(ctx, requestID, models.ConnectionRequestStatusAccepted); err != nil {
		return nil, err
	}

	active, err := s.gate.HasActiveSubscription(ctx, request.SenderID, request.ReceiverID)
	if err != nil {
		return nil, err
	}
	level := models.CommunicationLevelChat
	if active {
		level = models.CommunicationLevelVideo
	}

	friendship, created, err := s.friendshipRepo.CreateIfAbsent(ctx, &models.Friendship{
		User1ID:            request.SenderID,
		User2ID:            request.ReceiverID,
		CommunicationLevel: level,
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.cache.InvalidateFriendship(ctx, request.SenderID, request.ReceiverID)
	}

	request, err = s.connectionRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return &AcceptResult{Request: request, Friendship: friendship, Created: created}, nil
}

// Decline marks the request declined. The row is kept so a later resend can
// reopen it.
func (s *ConnectionService) Decline(ctx context.Context, requestID, actingUserID uint) (*models.ConnectionRequest, error) {
	request, err := s.connectionRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ReceiverID != actingUserID {
		return nil, models.NewForbiddenError("Only the receiver may decline a connection request")
	}
	if request.Status != models.ConnectionRequestStatusPending {
		return nil, models.NewInvalidStatusError("Connection request is not pending")
	}

	if err := s.connectionRepo.SetStatus(ctx, requestID, models.ConnectionRequestStatusDeclined); err != nil {
		return nil, err
	}
	return s.connectionRepo.GetByID(ctx, requestID)
}

// Cancel deletes a pending request. Only the original sender may cancel.
func (s *ConnectionService) Cancel(ctx context.Context, requestID, actingUserID uint) error {
	request, err := s.connectionRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.SenderID != actingUserID {
		return models.NewForbiddenError("Only the sender may cancel a connection request")
	}
	if request.Status != models.ConnectionRequestStatusPending {
		return models.NewInvalidStatusError("Connection request is not pending")
	}
	return s.connectionRepo.Delete(ctx, requestID)
}

// ListPending returns the user's pending requests, received and sent.
func (s *ConnectionService) ListPending(ctx context.Context, userID uint) (received, sent []models.ConnectionRequest, err error) {
	received, err = s.connectionRepo.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	sent, err = s.connectionRepo.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return received, sent, nil
}
