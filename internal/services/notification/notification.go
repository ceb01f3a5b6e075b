// Package notification ведёт журнал рассылок и подписки пользователей на них.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/metrics"
	"github.com/magabrotheeeer/syndicate/internal/models"
	"github.com/magabrotheeeer/syndicate/internal/rabbitmq"
)

const (
	sentListLimit   = 50
	latestListLimit = 10
)

// Repository хранилище рассылок и подписок.
type Repository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, limit int) ([]models.Notification, error)
	UpsertSubscription(ctx context.Context, userID, endpoint string, keys map[string]string) error
	DeleteSubscription(ctx context.Context, userID string) (bool, error)
	SubscriptionExists(ctx context.Context, userID string) (bool, error)
	CountSubscriptions(ctx context.Context) (int, error)
}

// Publisher брокер событий рассылки.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service журнал рассылок.
type Service struct {
	log       *slog.Logger
	repo      Repository
	publisher Publisher
	now       func() time.Time
}

// New создаёт сервис. publisher равен nil, если брокер не настроен.
func New(log *slog.Logger, repo Repository, publisher Publisher) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// Subscribe сохраняет или заменяет канал доставки пользователя.
func (s *Service) Subscribe(ctx context.Context, user *models.User, endpoint string, keys map[string]string) error {
	const op = "notification.Subscribe"
	if err := s.repo.UpsertSubscription(ctx, user.ID, endpoint, keys); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Unsubscribe удаляет подписку. Отсутствие подписки не ошибка.
func (s *Service) Unsubscribe(ctx context.Context, user *models.User) error {
	const op = "notification.Unsubscribe"
	if _, err := s.repo.DeleteSubscription(ctx, user.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsSubscribed сообщает, есть ли у пользователя подписка.
func (s *Service) IsSubscribed(ctx context.Context, user *models.User) (bool, error) {
	const op = "notification.IsSubscribed"
	ok, err := s.repo.SubscriptionExists(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// Send записывает рассылку и публикует событие для учёта получателей.
// Запись в журнале первична: ошибка публикации только логируется.
func (s *Service) Send(ctx context.Context, admin *models.User, title, body string, nt models.NotificationType) (*models.Notification, error) {
	const op = "notification.Send"
	log := s.log.With(slog.String("op", op))

	count, err := s.repo.CountSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	n := &models.Notification{
		ID:         uuid.New().String(),
		Title:      title,
		Body:       body,
		Type:       nt,
		SentAt:     s.now().UTC(),
		SentBy:     admin.ID,
		Recipients: count,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("notification recorded", slog.String("id", n.ID), slog.Int("subscribers", count))

	if s.publisher == nil {
		metrics.NotificationsPublished.WithLabelValues("skipped").Inc()
		return n, nil
	}
	event := models.BroadcastEvent{NotificationID: n.ID, Title: n.Title, Type: n.Type, SentAt: n.SentAt}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingKeyBroadcast, event); err != nil {
		log.Error("failed to publish broadcast event", slog.String("id", n.ID), sl.Err(err))
		metrics.NotificationsPublished.WithLabelValues("failed").Inc()
		return n, nil
	}
	metrics.NotificationsPublished.WithLabelValues("published").Inc()
	return n, nil
}

// ListSent последние 50 рассылок для админки.
func (s *Service) ListSent(ctx context.Context) ([]models.Notification, error) {
	const op = "notification.ListSent"
	list, err := s.repo.ListNotifications(ctx, sentListLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Latest последние 10 рассылок для публичной ленты.
func (s *Service) Latest(ctx context.Context) ([]models.Notification, error) {
	const op = "notification.Latest"
	list, err := s.repo.ListNotifications(ctx, latestListLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// SubscriberCount число подписанных пользователей.
func (s *Service) SubscriberCount(ctx context.Context) (int, error) {
	const op = "notification.SubscriberCount"
	n, err := s.repo.CountSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
