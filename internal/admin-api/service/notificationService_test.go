package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ebookstore/internal/admin-api/models"
	"ebookstore/internal/admin-api/repository"
	"ebookstore/internal/push"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- MOCKS ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) AddDeviceToken(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockUserRepository) FindAudience(ctx context.Context, f repository.AudienceFilter) ([]models.User, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.User), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Notification, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) UpdateDelivery(ctx context.Context, id string, successCount, failureCount int) error {
	args := m.Called(ctx, id, successCount, failureCount)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Send(ctx context.Context, tokens []string, payload push.Payload) (push.Result, error) {
	args := m.Called(ctx, tokens, payload)
	return args.Get(0).(push.Result), args.Error(1)
}

func newDispatchFixture() (*MockNotificationRepository, *MockUserRepository, *MockGateway, *notificationService) {
	repo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	gateway := new(MockGateway)
	svc := NewNotificationService(repo, userRepo, gateway, nil, 30*24*time.Hour, testLogger()).(*notificationService)
	return repo, userRepo, gateway, svc
}

func strPtr(s string) *string { return &s }

// --- TESTS ---

func TestUniqueTokens(t *testing.T) {
	users := []models.User{
		{DeviceTokens: models.StringList{"tok-a", "tok-b"}},
		{DeviceTokens: models.StringList{"tok-b", "tok-c", ""}},
		{DeviceTokens: models.StringList{"tok-a"}},
	}
	assert.Equal(t, []string{"tok-a", "tok-b", "tok-c"}, uniqueTokens(users))
}

func TestNotificationService_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("BookBuyersWithSharedDevice", func(t *testing.T) {
		repo, userRepo, gateway, svc := newDispatchFixture()

		bookID := "book-1"
		buyers := []models.User{
			{ID: "u1", DeviceTokens: models.StringList{"tok-1"}},
			{ID: "u2", DeviceTokens: models.StringList{"tok-2"}},
			{ID: "u3", DeviceTokens: models.StringList{"tok-1"}}, // shared device
		}
		userRepo.On("FindAudience", mock.Anything, repository.AudienceFilter{PurchasedBookID: &bookID}).
			Return(buyers, nil).Once()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil).Once()
		gateway.On("Send", mock.Anything, []string{"tok-1", "tok-2"}, mock.AnythingOfType("push.Payload")).
			Return(push.Result{SuccessCount: 2, FailureCount: 0}, nil).Once()
		repo.On("UpdateDelivery", mock.Anything, mock.Anything, 2, 0).Return(nil).Once()

		n, err := svc.Dispatch(ctx, DispatchInput{
			Message: "New chapter out",
			Type:    "Book Update",
			Target:  []string{TargetSpecificBookBuyers},
			BookID:  &bookID,
		})
		assert.NoError(t, err)
		assert.Equal(t, models.NotificationStatusSent, n.Status)
		assert.Equal(t, 2, n.EstimatedRecipients)
		assert.Equal(t, 2, n.SuccessCount)
		assert.NotNil(t, n.SentAt)
		gateway.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("NoInactiveUsersMatched", func(t *testing.T) {
		repo, userRepo, gateway, svc := newDispatchFixture()
		fixedNow := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixedNow }

		cutoff := fixedNow.Add(-30 * 24 * time.Hour)
		userRepo.On("FindAudience", mock.Anything, repository.AudienceFilter{InactiveSince: &cutoff}).
			Return([]models.User{}, nil).Once()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil).Once()

		n, err := svc.Dispatch(ctx, DispatchInput{
			Message: "We miss you",
			Target:  []string{TargetInactiveUsers},
		})
		assert.NoError(t, err)
		assert.Equal(t, models.NotificationStatusProcessed, n.Status)
		assert.Equal(t, 0, n.EstimatedRecipients)
		assert.Nil(t, n.SentAt)
		gateway.AssertNotCalled(t, "Send")
	})

	t.Run("ScheduledSkipsDelivery", func(t *testing.T) {
		repo, userRepo, gateway, svc := newDispatchFixture()

		scheduled := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
		userRepo.On("FindAudience", mock.Anything, repository.AudienceFilter{}).
			Return([]models.User{{DeviceTokens: models.StringList{"tok-1"}}}, nil).Once()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil).Once()

		n, err := svc.Dispatch(ctx, DispatchInput{
			Message:     "Summer sale",
			ScheduledAt: &scheduled,
		})
		assert.NoError(t, err)
		assert.Equal(t, models.NotificationStatusScheduled, n.Status)
		assert.Equal(t, &scheduled, n.SentAt)
		assert.Equal(t, 1, n.EstimatedRecipients)
		gateway.AssertNotCalled(t, "Send")
	})

	t.Run("EmptyTargetMeansAllUsers", func(t *testing.T) {
		repo, userRepo, gateway, svc := newDispatchFixture()

		userRepo.On("FindAudience", mock.Anything, repository.AudienceFilter{}).
			Return([]models.User{{DeviceTokens: models.StringList{"tok-1"}}}, nil).Once()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil).Once()
		gateway.On("Send", mock.Anything, []string{"tok-1"}, mock.AnythingOfType("push.Payload")).
			Return(push.Result{SuccessCount: 1}, nil).Once()
		repo.On("UpdateDelivery", mock.Anything, mock.Anything, 1, 0).Return(nil).Once()

		n, err := svc.Dispatch(ctx, DispatchInput{})
		assert.NoError(t, err)
		assert.Equal(t, defaultMessage, n.Message)
		assert.Equal(t, defaultType, n.Type)
		assert.Equal(t, models.StringList{"Unknown"}, n.Target)
	})

	t.Run("BuyersSelectorWithoutBookIDIgnored", func(t *testing.T) {
		repo, userRepo, gateway, svc := newDispatchFixture()

		// selector dropped, so the filter stays empty
		userRepo.On("FindAudience", mock.Anything, repository.AudienceFilter{}).
			Return([]models.User{}, nil).Once()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil).Once()

		n, err := svc.Dispatch(ctx, DispatchInput{Target: []string{TargetSpecificBookBuyers}})
		assert.NoError(t, err)
		assert.Equal(t, models.NotificationStatusProcessed, n.Status)
		gateway.AssertNotCalled(t, "Send")
	})

	t.Run("SelectorsComposeRegardlessOfOrder", func(t *testing.T) {
		_, _, _, svc1 := newDispatchFixture()
		_, _, _, svc2 := newDispatchFixture()
		fixedNow := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc1.now = func() time.Time { return fixedNow }
		svc2.now = func() time.Time { return fixedNow }

		bookID := "book-1"
		f1 := svc1.resolveAudience(DispatchInput{
			Target: []string{TargetSpecificBookBuyers, TargetInactiveUsers},
			BookID: &bookID,
		})
		f2 := svc2.resolveAudience(DispatchInput{
			Target: []string{TargetInactiveUsers, TargetSpecificBookBuyers},
			BookID: &bookID,
		})
		assert.Equal(t, f1, f2)
		assert.Equal(t, &bookID, f1.PurchasedBookID)
		assert.NotNil(t, f1.InactiveSince)
	})

	t.Run("GatewayFailureCountsAsFailures", func(t *testing.T) {
		repo, userRepo, gateway, svc := newDispatchFixture()

		userRepo.On("FindAudience", mock.Anything, repository.AudienceFilter{}).
			Return([]models.User{
				{DeviceTokens: models.StringList{"tok-1"}},
				{DeviceTokens: models.StringList{"tok-2"}},
			}, nil).Once()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil).Once()
		gateway.On("Send", mock.Anything, mock.Anything, mock.Anything).
			Return(push.Result{}, errors.New("gateway unreachable")).Once()
		repo.On("UpdateDelivery", mock.Anything, mock.Anything, 0, 2).Return(nil).Once()

		n, err := svc.Dispatch(ctx, DispatchInput{Message: "hello"})
		assert.NoError(t, err, "gateway failures must not fail the dispatch")
		assert.Equal(t, models.NotificationStatusSent, n.Status)
		assert.Equal(t, 0, n.SuccessCount)
		assert.Equal(t, 2, n.FailureCount)
	})

	t.Run("StorageFailurePropagates", func(t *testing.T) {
		repo, userRepo, gateway, svc := newDispatchFixture()

		userRepo.On("FindAudience", mock.Anything, mock.Anything).
			Return([]models.User{}, nil).Once()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).
			Return(errors.New("insert failed")).Once()

		_, err := svc.Dispatch(ctx, DispatchInput{})
		assert.Error(t, err)
		gateway.AssertNotCalled(t, "Send")
	})
}

func TestNotificationService_BuildRecordTargetTrimming(t *testing.T) {
	_, _, _, svc := newDispatchFixture()

	n := svc.buildRecord(DispatchInput{
		Target: []string{" All Users ", "", "Inactive Users"},
		BookID: strPtr("book-9"),
	}, 0)
	assert.Equal(t, models.StringList{"All Users", "Inactive Users"}, n.Target)
	assert.Equal(t, "book-9", *n.BookID)
}
