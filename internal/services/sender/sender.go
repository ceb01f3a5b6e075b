// Package sender обрабатывает события рассылки из очереди: фиксирует,
// скольким подписчикам адресована рассылка. Доставки нет.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

// Repository хранилище подписок и журнала рассылок.
type Repository interface {
	CountSubscriptions(ctx context.Context) (int, error)
	SetRecipients(ctx context.Context, notificationID string, count int) error
}

// SenderService потребитель очереди broadcast.
type SenderService struct {
	repo Repository
	log  *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(repo Repository, log *slog.Logger) *SenderService {
	return &SenderService{
		repo: repo,
		log:  log,
	}
}

// HandleBroadcast записывает текущее число подписчиков в рассылку из события.
func (s *SenderService) HandleBroadcast(ctx context.Context, body []byte) error {
	const op = "sender.HandleBroadcast"

	var event models.BroadcastEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}
	if event.NotificationID == "" {
		return fmt.Errorf("%s: notification_id is empty", op)
	}

	count, err := s.repo.CountSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SetRecipients(ctx, event.NotificationID, count); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("broadcast recorded",
		slog.String("notification_id", event.NotificationID),
		slog.String("type", string(event.Type)),
		slog.Int("recipients", count),
	)
	return nil
}
