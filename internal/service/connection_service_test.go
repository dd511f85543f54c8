package service

import (
	"context"
	"errors"
	"testing"

	"kindred/internal/models"
)

func newConnectionService(connRepo *connectionRepoStub, friendRepo *friendshipRepoStub, userRepo *userRepoStub, subRepo *subscriptionRepoStub) *ConnectionService {
	gate := NewGateService(friendRepo, subRepo, passthroughCache())
	return NewConnectionService(connRepo, friendRepo, userRepo, gate, passthroughCache())
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s, got %#v", code, err)
	}
}

func TestConnectionSendToSelf(t *testing.T) {
	svc := newConnectionService(noopConnectionRepo(), noopFriendshipRepo(), noopUserRepo(), noopSubscriptionRepo())

	_, err := svc.Send(context.Background(), 3, 3)
	expectCode(t, err, models.CodeValidationError)
}

func TestConnectionSendMissingReceiver(t *testing.T) {
	svc := newConnectionService(noopConnectionRepo(), noopFriendshipRepo(), noopUserRepo(), noopSubscriptionRepo())

	_, err := svc.Send(context.Background(), 3, 0)
	expectCode(t, err, models.CodeValidationError)
}

func TestConnectionSendReceiverNotFound(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError(models.CodeUserNotFound, "User", id)
	}
	svc := newConnectionService(noopConnectionRepo(), noopFriendshipRepo(), userRepo, noopSubscriptionRepo())

	_, err := svc.Send(context.Background(), 1, 2)
	expectCode(t, err, models.CodeUserNotFound)
}

func TestConnectionSendAlreadyFriends(t *testing.T) {
	friendRepo := noopFriendshipRepo()
	friendRepo.getByPairFn = func(context.Context, uint, uint) (*models.Friendship, error) {
		return &models.Friendship{ID: 1, User1ID: 1, User2ID: 2}, nil
	}
	svc := newConnectionService(noopConnectionRepo(), friendRepo, noopUserRepo(), noopSubscriptionRepo())

	_, err := svc.Send(context.Background(), 1, 2)
	expectCode(t, err, models.CodeAlreadyFriends)
}

func TestConnectionSendDuplicatePending(t *testing.T) {
	connRepo := noopConnectionRepo()
	connRepo.getByPairFn = func(context.Context, uint, uint) (*models.ConnectionRequest, error) {
		return &models.ConnectionRequest{ID: 4, SenderID: 1, ReceiverID: 2, Status: models.ConnectionRequestStatusPending}, nil
	}
	svc := newConnectionService(connRepo, noopFriendshipRepo(), noopUserRepo(), noopSubscriptionRepo())

	_, err := svc.Send(context.Background(), 1, 2)
	expectCode(t, err, models.CodeRequestExists)
}

func TestConnectionSendReopensDeclined(t *testing.T) {
	reopened := false
	connRepo := noopConnectionRepo()
	connRepo.getByPairFn = func(context.Context, uint, uint) (*models.ConnectionRequest, error) {
		return &models.ConnectionRequest{ID: 4, SenderID: 1, ReceiverID: 2, Status: models.ConnectionRequestStatusDeclined}, nil
	}
	connRepo.reopenFn = func(_ context.Context, id uint) error {
		if id != 4 {
			t.Fatalf("expected reopen of request 4, got %d", id)
		}
		reopened = true
		return nil
	}
	connRepo.getByIDFn = func(_ context.Context, id uint) (*models.ConnectionRequest, error) {
		return &models.ConnectionRequest{ID: id, SenderID: 1, ReceiverID: 2, Status: models.ConnectionRequestStatusPending}, nil
	}
	connRepo.createFn = func(context.Context, *models.ConnectionRequest) error {
		t.Fatal("resend after decline must reopen, not create")
		return nil
	}
	svc := newConnectionService(connRepo, noopFriendshipRepo(), noopUserRepo(), noopSubscriptionRepo())

	request, err := svc.Send(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reopened {
		t.Fatal("expected the declined request to be reopened")
	}
	if request.Status != models.ConnectionRequestStatusPending {
		t.Fatalf("expected pending status after resend, got %s", request.Status)
	}
}

func TestConnectionAcceptForbidden(t *testing.T) {
	connRepo := noopConnectionRepo()
	connRepo.getByIDFn = func(context.Context, uint) (*models.ConnectionRequest, error) {
		return &models.ConnectionRequest{ID: 5, SenderID: 10, ReceiverID: 11, Status: models.ConnectionRequestStatusPending}, nil
	}
	svc := newConnectionService(connRepo, noopFriendshipRepo(), noopUserRepo(), noopSubscriptionRepo())

	_, err := svc.Accept(context.Background(), 5, 12)
	expectCode(t, err, models.CodeForbidden)

	// The sender is not allowed to accept their own request either.
	_, err = svc.Accept(context.Background(), 5, 10)
	expectCode(t, err, models.CodeForbidden)
}

func TestConnectionAcceptNotPending(t *testing.T) {
	connRepo := noopConnectionRepo()
	connRepo.getByIDFn = func(context.Context, uint) (*models.ConnectionRequest, error) {
		return &models.ConnectionRequest{ID: 5, SenderID: 10, ReceiverID: 11, Status: models.ConnectionRequestStatusAccepted}, nil
	}
	svc := newConnectionService(connRepo, noopFriendshipRepo(), noopUserRepo(), noopSubscriptionRepo())

	_, err := svc.Accept(context.Background(), 5, 11)
	expectCode(t, err, models.CodeInvalidStatus)
}

func TestConnectionAcceptInitialLevelFromSubscription(t *testing.T) {
	connRepo := noopConnectionRepo()
	connRepo.getByIDFn = func(context.Context, uint) (*models.ConnectionRequest, error) {
		return &models.ConnectionRequest{ID: 5, SenderID: 10, ReceiverID: 11, Status: models.ConnectionRequestStatusPending}, nil
	}

	tests := []struct {
		name     string
		sub      *models.Subscription
		expected models.CommunicationLevel
	}{
		{"no subscription starts at chat", nil, models.CommunicationLevelChat},
		{
			"sender subscription starts at video",
			&models.Subscription{UserID: 10, Plan: models.SubscriptionPlanPremium, Status: models.SubscriptionStatusActive},
			models.CommunicationLevelVideo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subRepo := noopSubscriptionRepo()
			subRepo.getByUserFn = func(_ context.Context, userID uint) (*models.Subscription, error) {
				if tt.sub != nil && userID == tt.sub.UserID {
					return tt.sub, nil
				}
				return nil, nil
			}
			var created *models.Friendship
			friendRepo := noopFriendshipRepo()
			friendRepo.createIfAbsentFn = func(_ context.Context, f *models.Friendship) (*models.Friendship, bool, error) {
				created = f
				return f, true, nil
			}

			svc := newConnectionService(connRepo, friendRepo, noopUserRepo(), subRepo)
			result, err := svc.Accept(context.Background(), 5, 11)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Created {
				t.Fatal("expected a new friendship to be created")
			}
			if created.CommunicationLevel != tt.expected {
				t.Fatalf("expected initial level %s, got %s", tt.expected, created.CommunicationLevel)
			}
			if created.InteractionCount != 0 {
				t.Fatalf("expected interaction count 0, got %d", created.InteractionCount)
			}
		})
	}
}

func TestConnectionAcceptIdempotentOnExistingFriendship(t *testing.T) {
	connRepo := noopConnectionRepo()
	connRepo.getByIDFn = func(context.Context, uint) (*models.ConnectionRequest, error) {
		return &models.ConnectionRequest{ID: 6, SenderID: 11, ReceiverID: 10, Status: models.ConnectionRequestStatusPending}, nil
	}
	existing := &models.Friendship{ID: 99, User1ID: 10, User2ID: 11, CommunicationLevel: models.CommunicationLevelChat}
	friendRepo := noopFriendshipRepo()
	friendRepo.createIfAbsentFn = func(context.Context, *models.Friendship) (*models.Friendship, bool, error) {
		return existing, false, nil
	}

	svc := newConnectionService(connRepo, friendRepo, noopUserRepo(), noopSubscriptionRepo())
	result, err := svc.Accept(context.Background(), 6, 10)
	if err != nil {
		t.Fatalf("accepting the mirrored request must succeed, got %v", err)
	}
	if result.Created {
		t.Fatal("no second friendship may be created for the pair")
	}
	if result.Friendship.ID != 99 {
		t.Fatalf("expected the existing friendship to be returned, got %d", result.Friendship.ID)
	}
}

func TestConnectionDeclineAuthorization(t *testing.T) {
	connRepo := noopConnectionRepo()
	connRepo.getByIDFn = func(context.Context, uint) (*models.ConnectionRequest, error) {
		return &models.ConnectionRequest{ID: 5, SenderID: 10, ReceiverID: 11, Status: models.ConnectionRequestStatusPending}, nil
	}
	svc := newConnectionService(connRepo, noopFriendshipRepo(), noopUserRepo(), noopSubscriptionRepo())

	_, err := svc.Decline(context.Background(), 5, 10)
	expectCode(t, err, models.CodeForbidden)
}

func TestConnectionCancelSenderOnly(t *testing.T) {
	deleted := false
	connRepo := noopConnectionRepo()
	connRepo.getByIDFn = func(context.Context, uint) (*models.ConnectionRequest, error) {
		return &models.ConnectionRequest{ID: 5, SenderID: 10, ReceiverID: 11, Status: models.ConnectionRequestStatusPending}, nil
	}
	connRepo.deleteFn = func(context.Context, uint) error {
		deleted = true
		return nil
	}
	svc := newConnectionService(connRepo, noopFriendshipRepo(), noopUserRepo(), noopSubscriptionRepo())

	if err := svc.Cancel(context.Background(), 5, 11); err == nil {
		t.Fatal("receiver must not cancel the sender's request")
	} else {
		expectCode(t, err, models.CodeForbidden)
	}
	if deleted {
		t.Fatal("forbidden cancel must not delete the request")
	}

	if err := svc.Cancel(context.Background(), 5, 10); err != nil {
		t.Fatalf("sender cancel should succeed, got %v", err)
	}
	if !deleted {
		t.Fatal("expected the pending request to be deleted")
	}
}

func TestConnectionCancelNotPending(t *testing.T) {
	connRepo := noopConnectionRepo()
	connRepo.getByIDFn = func(context.Context, uint) (*models.ConnectionRequest, error) {
		return &models.ConnectionRequest{ID: 5, SenderID: 10, ReceiverID: 11, Status: models.ConnectionRequestStatusDeclined}, nil
	}
	svc := newConnectionService(connRepo, noopFriendshipRepo(), noopUserRepo(), noopSubscriptionRepo())

	err := svc.Cancel(context.Background(), 5, 10)
	expectCode(t, err, models.CodeInvalidStatus)
}
