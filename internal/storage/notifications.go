package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

// CreateNotification сохраняет запись журнала рассылок.
func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) error {
	const op = "storage.CreateNotification"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	query := `
		INSERT INTO notifications (id, title, body, notification_type, sent_at, sent_by, recipients)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.DB.ExecContext(ctx, query, n.ID, n.Title, n.Body, string(n.Type), n.SentAt, n.SentBy, n.Recipients)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListNotifications возвращает последние limit рассылок, новые первыми.
func (s *Storage) ListNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	const op = "storage.ListNotifications"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	query := `
		SELECT id, title, body, notification_type, sent_at, sent_by, recipients
		FROM notifications
		ORDER BY sent_at DESC
		LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Type, &n.SentAt, &n.SentBy, &n.Recipients); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetRecipients записывает число получателей рассылки.
func (s *Storage) SetRecipients(ctx context.Context, notificationID string, count int) error {
	const op = "storage.SetRecipients"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, `UPDATE notifications SET recipients = $2 WHERE id = $1`, notificationID, count)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// UpsertSubscription регистрирует канал доставки пользователя, заменяя прежний.
func (s *Storage) UpsertSubscription(ctx context.Context, userID, endpoint string, keys map[string]string) error {
	const op = "storage.UpsertSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if keys == nil {
		keys = map[string]string{}
	}
	rawKeys, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `
		INSERT INTO notification_subscriptions (user_id, endpoint, keys, subscribed_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
			SET endpoint = EXCLUDED.endpoint, keys = EXCLUDED.keys, subscribed_at = EXCLUDED.subscribed_at`
	if _, err := s.DB.ExecContext(ctx, query, userID, endpoint, string(rawKeys)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteSubscription удаляет регистрацию. false, если её не было.
func (s *Storage) DeleteSubscription(ctx context.Context, userID string) (bool, error) {
	const op = "storage.DeleteSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}
	res, err := s.DB.ExecContext(ctx, `DELETE FROM notification_subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// SubscriptionExists сообщает, зарегистрирован ли пользователь на рассылку.
func (s *Storage) SubscriptionExists(ctx context.Context, userID string) (bool, error) {
	const op = "storage.SubscriptionExists"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM notification_subscriptions WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CountSubscriptions возвращает число зарегистрированных каналов доставки.
func (s *Storage) CountSubscriptions(ctx context.Context) (int, error) {
	const op = "storage.CountSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM notification_subscriptions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
