package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/syndicate/internal/models"
	"github.com/magabrotheeeer/syndicate/internal/rabbitmq"
)

type repoMock struct {
	mock.Mock
}

func (m *repoMock) CreateNotification(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *repoMock) ListNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *repoMock) UpsertSubscription(ctx context.Context, userID, endpoint string, keys map[string]string) error {
	return m.Called(ctx, userID, endpoint, keys).Error(0)
}

func (m *repoMock) DeleteSubscription(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *repoMock) SubscriptionExists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *repoMock) CountSubscriptions(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	admin   = &models.User{ID: "admin-1", IsAdmin: true}
	punter  = &models.User{ID: "user-1"}
	sentNow = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
)

func TestService_Send(t *testing.T) {
	tests := []struct {
		name       string
		publishErr error
	}{
		{name: "published"},
		{name: "publish failure is not fatal", publishErr: errors.New("channel closed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMock)
			pub := new(publisherMock)
			repo.On("CountSubscriptions", mock.Anything).Return(4, nil)
			repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
				return n.Title == "Bets live" && n.Recipients == 4 && n.SentBy == "admin-1" &&
					n.Type == models.NotificationBetsLive && n.SentAt.Equal(sentNow)
			})).Return(nil)
			pub.On("Publish", mock.Anything, rabbitmq.RoutingKeyBroadcast, mock.MatchedBy(func(e models.BroadcastEvent) bool {
				return e.NotificationID != "" && e.Title == "Bets live" && e.Type == models.NotificationBetsLive
			})).Return(tt.publishErr)

			svc := New(noopLogger(), repo, pub)
			svc.now = func() time.Time { return sentNow }

			n, err := svc.Send(context.Background(), admin, "Bets live", "Today's picks are up", models.NotificationBetsLive)
			require.NoError(t, err)
			assert.Equal(t, 4, n.Recipients)
			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestService_Send_WithoutBroker(t *testing.T) {
	repo := new(repoMock)
	repo.On("CountSubscriptions", mock.Anything).Return(0, nil)
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)

	svc := New(noopLogger(), repo, nil)
	n, err := svc.Send(context.Background(), admin, "Results", "All green", models.NotificationResults)
	require.NoError(t, err)
	assert.Zero(t, n.Recipients)
}

func TestService_Send_StoreFailure(t *testing.T) {
	repo := new(repoMock)
	pub := new(publisherMock)
	repo.On("CountSubscriptions", mock.Anything).Return(1, nil)
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := New(noopLogger(), repo, pub)
	_, err := svc.Send(context.Background(), admin, "Results", "All green", models.NotificationResults)
	assert.Error(t, err)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Subscriptions(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMock)
	keys := map[string]string{"p256dh": "key", "auth": "secret"}
	repo.On("UpsertSubscription", ctx, "user-1", "https://push.example/1", keys).Return(nil)
	repo.On("SubscriptionExists", ctx, "user-1").Return(true, nil).Once()
	repo.On("DeleteSubscription", ctx, "user-1").Return(true, nil).Once()
	repo.On("DeleteSubscription", ctx, "user-1").Return(false, nil).Once()
	repo.On("SubscriptionExists", ctx, "user-1").Return(false, nil).Once()
	svc := New(noopLogger(), repo, nil)

	require.NoError(t, svc.Subscribe(ctx, punter, "https://push.example/1", keys))
	ok, err := svc.IsSubscribed(ctx, punter)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Unsubscribe(ctx, punter))
	require.NoError(t, svc.Unsubscribe(ctx, punter), "unsubscribing twice is fine")

	ok, err = svc.IsSubscribed(ctx, punter)
	require.NoError(t, err)
	assert.False(t, ok)
	repo.AssertExpectations(t)
}

func TestService_Listings(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMock)
	list := []models.Notification{{ID: "n-2"}, {ID: "n-1"}}
	repo.On("ListNotifications", ctx, sentListLimit).Return(list, nil)
	repo.On("ListNotifications", ctx, latestListLimit).Return(list[:1], nil)
	repo.On("CountSubscriptions", ctx).Return(7, nil)
	svc := New(noopLogger(), repo, nil)

	sent, err := svc.ListSent(ctx)
	require.NoError(t, err)
	assert.Len(t, sent, 2)

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Notification{{ID: "n-2"}}, latest)

	count, err := svc.SubscriberCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}
