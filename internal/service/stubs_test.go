package service

import (
	"context"

	"kindred/internal/cache"
	"kindred/internal/models"
)

// Hand-rolled stubs for the repository interfaces. Tests override only the
// functions they care about.

type friendshipRepoStub struct {
	createIfAbsentFn func(context.Context, *models.Friendship) (*models.Friendship, bool, error)
	getByIDFn        func(context.Context, uint) (*models.Friendship, error)
	getByPairFn      func(context.Context, uint, uint) (*models.Friendship, error)
	listByUserFn     func(context.Context, uint) ([]models.Friendship, error)
	updatesFn        func(context.Context, uint, map[string]interface{}) error
	deleteFn         func(context.Context, uint) error
}

func (s *friendshipRepoStub) CreateIfAbsent(ctx context.Context, f *models.Friendship) (*models.Friendship, bool, error) {
	return s.createIfAbsentFn(ctx, f)
}
func (s *friendshipRepoStub) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	return s.getByIDFn(ctx, id)
}
func (s *friendshipRepoStub) GetByPair(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	return s.getByPairFn(ctx, userID1, userID2)
}
func (s *friendshipRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *friendshipRepoStub) Updates(ctx context.Context, id uint, values map[string]interface{}) error {
	return s.updatesFn(ctx, id, values)
}
func (s *friendshipRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopFriendshipRepo() *friendshipRepoStub {
	return &friendshipRepoStub{
		createIfAbsentFn: func(_ context.Context, f *models.Friendship) (*models.Friendship, bool, error) {
			return f, true, nil
		},
		getByIDFn:    func(context.Context, uint) (*models.Friendship, error) { return &models.Friendship{}, nil },
		getByPairFn:  func(context.Context, uint, uint) (*models.Friendship, error) { return nil, nil },
		listByUserFn: func(context.Context, uint) ([]models.Friendship, error) { return nil, nil },
		updatesFn:    func(context.Context, uint, map[string]interface{}) error { return nil },
		deleteFn:     func(context.Context, uint) error { return nil },
	}
}

type subscriptionRepoStub struct {
	getOrCreateFn func(context.Context, uint) (*models.Subscription, error)
	getByUserFn   func(context.Context, uint) (*models.Subscription, error)
	saveFn        func(context.Context, *models.Subscription) error
}

func (s *subscriptionRepoStub) GetOrCreate(ctx context.Context, userID uint) (*models.Subscription, error) {
	return s.getOrCreateFn(ctx, userID)
}
func (s *subscriptionRepoStub) GetByUser(ctx context.Context, userID uint) (*models.Subscription, error) {
	return s.getByUserFn(ctx, userID)
}
func (s *subscriptionRepoStub) Save(ctx context.Context, subscription *models.Subscription) error {
	return s.saveFn(ctx, subscription)
}

func noopSubscriptionRepo() *subscriptionRepoStub {
	return &subscriptionRepoStub{
		getOrCreateFn: func(_ context.Context, userID uint) (*models.Subscription, error) {
			return &models.Subscription{
				UserID: userID,
				Plan:   models.SubscriptionPlanFree,
				Status: models.SubscriptionStatusActive,
			}, nil
		},
		getByUserFn: func(context.Context, uint) (*models.Subscription, error) { return nil, nil },
		saveFn:      func(context.Context, *models.Subscription) error { return nil },
	}
}

type connectionRepoStub struct {
	createFn              func(context.Context, *models.ConnectionRequest) error
	getByIDFn             func(context.Context, uint) (*models.ConnectionRequest, error)
	getByPairFn           func(context.Context, uint, uint) (*models.ConnectionRequest, error)
	listPendingReceivedFn func(context.Context, uint) ([]models.ConnectionRequest, error)
	listPendingSentFn     func(context.Context, uint) ([]models.ConnectionRequest, error)
	reopenFn              func(context.Context, uint) error
	setStatusFn           func(context.Context, uint, models.ConnectionRequestStatus) error
	deleteFn              func(context.Context, uint) error
}

func (s *connectionRepoStub) Create(ctx context.Context, request *models.ConnectionRequest) error {
	return s.createFn(ctx, request)
}
func (s *connectionRepoStub) GetByID(ctx context.Context, id uint) (*models.ConnectionRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *connectionRepoStub) GetByPair(ctx context.Context, senderID, receiverID uint) (*models.ConnectionRequest, error) {
	return s.getByPairFn(ctx, senderID, receiverID)
}
func (s *connectionRepoStub) ListPendingReceived(ctx context.Context, userID uint) ([]models.ConnectionRequest, error) {
	return s.listPendingReceivedFn(ctx, userID)
}
func (s *connectionRepoStub) ListPendingSent(ctx context.Context, userID uint) ([]models.ConnectionRequest, error) {
	return s.listPendingSentFn(ctx, userID)
}
func (s *connectionRepoStub) Reopen(ctx context.Context, id uint) error {
	return s.reopenFn(ctx, id)
}
func (s *connectionRepoStub) SetStatus(ctx context.Context, id uint, status models.ConnectionRequestStatus) error {
	return s.setStatusFn(ctx, id, status)
}
func (s *connectionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopConnectionRepo() *connectionRepoStub {
	return &connectionRepoStub{
		createFn: func(context.Context, *models.ConnectionRequest) error { return nil },
		getByIDFn: func(context.Context, uint) (*models.ConnectionRequest, error) {
			return &models.ConnectionRequest{}, nil
		},
		getByPairFn:           func(context.Context, uint, uint) (*models.ConnectionRequest, error) { return nil, nil },
		listPendingReceivedFn: func(context.Context, uint) ([]models.ConnectionRequest, error) { return nil, nil },
		listPendingSentFn:     func(context.Context, uint) ([]models.ConnectionRequest, error) { return nil, nil },
		reopenFn:              func(context.Context, uint) error { return nil },
		setStatusFn:           func(context.Context, uint, models.ConnectionRequestStatus) error { return nil },
		deleteFn:              func(context.Context, uint) error { return nil },
	}
}

type userRepoStub struct {
	createFn   func(context.Context, *models.User) error
	getByIDFn  func(context.Context, uint) (*models.User, error)
	getByIDsFn func(context.Context, []uint) ([]models.User, error)
	updateFn   func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:   func(context.Context, *models.User) error { return nil },
		getByIDFn:  func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByIDsFn: func(context.Context, []uint) ([]models.User, error) { return nil, nil },
		updateFn:   func(context.Context, *models.User) error { return nil },
	}
}

type callRepoStub struct {
	createFn     func(context.Context, *models.Call) error
	listByUserFn func(context.Context, uint, int) ([]models.Call, error)
}

func (s *callRepoStub) Create(ctx context.Context, call *models.Call) error {
	return s.createFn(ctx, call)
}
func (s *callRepoStub) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Call, error) {
	return s.listByUserFn(ctx, userID, limit)
}

func noopCallRepo() *callRepoStub {
	return &callRepoStub{
		createFn:     func(context.Context, *models.Call) error { return nil },
		listByUserFn: func(context.Context, uint, int) ([]models.Call, error) { return nil, nil },
	}
}

// passthroughCache returns a cache service with no Redis behind it.
func passthroughCache() *cache.Service {
	return cache.NewServiceWithClient(nil)
}
