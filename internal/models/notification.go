package models

import (
	"fmt"
	"time"
)

// NotificationType категория рассылки.
type NotificationType string

const (
	NotificationBetsLive NotificationType = "bets_live"
	NotificationResults  NotificationType = "results"
	NotificationCustom   NotificationType = "custom"
)

// ParseNotificationType отклоняет значения вне перечисления.
func ParseNotificationType(s string) (NotificationType, error) {
	switch nt := NotificationType(s); nt {
	case NotificationBetsLive, NotificationResults, NotificationCustom:
		return nt, nil
	}
	return "", fmt.Errorf("unknown notification type %q", s)
}

// Notification запись журнала рассылок.
type Notification struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Body       string           `json:"body"`
	Type       NotificationType `json:"notification_type"`
	SentAt     time.Time        `json:"sent_at"`
	SentBy     string           `json:"sent_by"`
	Recipients int              `json:"recipients"`
}

// DummyNotification тело запроса рассылки.
type DummyNotification struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
	Type  string `json:"notification_type" validate:"required,oneof=bets_live results custom"`
}

// DummySubscription регистрация канала доставки.
type DummySubscription struct {
	Endpoint string            `json:"endpoint" validate:"required"`
	Keys     map[string]string `json:"keys"`
}

// BroadcastEvent сообщение в очередь рассылки.
type BroadcastEvent struct {
	NotificationID string           `json:"notification_id"`
	Title          string           `json:"title"`
	Type           NotificationType `json:"notification_type"`
	SentAt         time.Time        `json:"sent_at"`
}
