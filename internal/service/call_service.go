package service

import (
	"context"
	"fmt"

	"kindred/internal/models"
	"kindred/internal/repository"

	"github.com/google/uuid"
)

// CallService applies the call initiation policy and records call-session
// bookkeeping rows. Media transport itself is an external collaborator.
type CallService struct {
	callRepo repository.CallRepository
	userRepo repository.UserRepository
	gate     *GateService
}

// NewCallService returns a new CallService.
func NewCallService(callRepo repository.CallRepository, userRepo repository.UserRepository, gate *GateService) *CallService {
	return &CallService{callRepo: callRepo, userRepo: userRepo, gate: gate}
}

// Initiate checks the communication gate for the requested channel and, when
// allowed, persists a new call session. Locked rejections name the unlock
// condition so clients can render the right upsell.
func (s *CallService) Initiate(ctx context.Context, callerID, calleeID uint, callType models.CallType) (*models.Call, error) {
	if calleeID == 0 {
		return nil, models.NewValidationError("A callee id is required")
	}
	if callerID == calleeID {
		return nil, models.NewValidationError("Cannot call yourself")
	}
	if callType != models.CallTypeVoice && callType != models.CallTypeVideo {
		return nil, models.NewValidationError(fmt.Sprintf("Unknown call type %q", callType))
	}

	if _, err := s.userRepo.GetByID(ctx, calleeID); err != nil {
		return nil, err
	}

	switch callType {
	case models.CallTypeVoice:
		unlocked, err := s.gate.IsVoiceUnlocked(ctx, callerID, calleeID)
		if err != nil {
			return nil, err
		}
		if !unlocked {
			return nil, models.NewLockedError(models.CodeVoiceLocked,
				"Voice calls unlock once you are connected and have built up interactions with this user")
		}
	case models.CallTypeVideo:
		unlocked, err := s.gate.IsVideoUnlocked(ctx, callerID, calleeID)
		if err != nil {
			return nil, err
		}
		if !unlocked {
			return nil, models.NewLockedError(models.CodeVideoLocked,
				"Video calls require an active premium subscription on either side")
		}
	}

	call := &models.Call{
		SessionID: uuid.NewString(),
		CallerID:  callerID,
		CalleeID:  calleeID,
		Type:      callType,
		Status:    models.CallStatusInitiated,
	}
	if err := s.callRepo.Create(ctx, call); err != nil {
		return nil, err
	}
	return call, nil
}

// History returns the user's recent call sessions.
func (s *CallService) History(ctx context.Context, userID uint, limit int) ([]models.Call, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.callRepo.ListByUser(ctx, userID, limit)
}
