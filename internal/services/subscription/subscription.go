// Package subscription ведёт состояние платной подписки пользователя:
// создание checkout-сессии, опрос её статуса и обработку webhook провайдера.
// Оба пути подтверждения оплаты сходятся в storage.ApplyPaidCheckout.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/metrics"
	"github.com/magabrotheeeer/syndicate/internal/models"
	"github.com/magabrotheeeer/syndicate/internal/paymentprovider"
)

const (
	productName      = "The 2.5 Syndicate VIP Monthly"
	subscriptionType = "vip_monthly"

	// WebhookSuccess и WebhookError значения поля status ответа на webhook.
	WebhookSuccess = "success"
	WebhookError   = "error"
)

// PaymentProvider внешний платёжный провайдер.
type PaymentProvider interface {
	CreateCheckout(ctx context.Context, req paymentprovider.CheckoutRequest) (*paymentprovider.Session, error)
	GetCheckout(ctx context.Context, sessionID string) (*paymentprovider.Session, error)
	ParseWebhook(payload []byte, signature string) (*paymentprovider.WebhookEvent, error)
}

// TransactionRepository хранилище платёжных транзакций.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ApplyPaidCheckout(ctx context.Context, pc models.PaidCheckout) (bool, error)
}

// WebhookResult ответ на webhook. HTTP-статус всегда 200.
type WebhookResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Service машина состояний подписки.
type Service struct {
	log         *slog.Logger
	provider    PaymentProvider
	repo        TransactionRepository
	amountMinor int64
	currency    string
}

// New создаёт сервис. provider равен nil, если оплата не настроена.
func New(log *slog.Logger, provider PaymentProvider, repo TransactionRepository, amountMinor int64, currency string) *Service {
	return &Service{
		log:         log,
		provider:    provider,
		repo:        repo,
		amountMinor: amountMinor,
		currency:    strings.ToLower(currency),
	}
}

// StartCheckout создаёт checkout-сессию и pending-транзакцию. Доступ не выдаёт.
func (s *Service) StartCheckout(ctx context.Context, user *models.User, originURL string) (*models.CheckoutSession, error) {
	const op = "subscription.StartCheckout"
	if s.provider == nil {
		return nil, fmt.Errorf("%s: payment provider: %w", op, apperr.ErrConfigurationMissing)
	}

	origin := strings.TrimRight(originURL, "/")
	session, err := s.provider.CreateCheckout(ctx, paymentprovider.CheckoutRequest{
		SuccessURL:  origin + "/account?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   origin + "/vip",
		AmountMinor: s.amountMinor,
		Currency:    s.currency,
		ProductName: productName,
		Metadata: map[string]string{
			"user_id":           user.ID,
			"user_email":        user.Email,
			"subscription_type": subscriptionType,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx := &models.Transaction{
		ID:            uuid.New().String(),
		SessionID:     session.ID,
		UserID:        user.ID,
		UserEmail:     user.Email,
		Amount:        float64(s.amountMinor) / 100,
		Currency:      s.currency,
		PaymentStatus: models.PaymentPending,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.CheckoutSession{URL: session.URL, SessionID: session.ID}, nil
}

// PollStatus читает статус сессии у провайдера и, если она оплачена,
// выдаёт VIP текущему пользователю. Повторный опрос ничего не меняет.
func (s *Service) PollStatus(ctx context.Context, sessionID string, user *models.User) (*models.CheckoutStatus, error) {
	const op = "subscription.PollStatus"
	if s.provider == nil {
		return nil, fmt.Errorf("%s: payment provider: %w", op, apperr.ErrConfigurationMissing)
	}

	session, err := s.provider.GetCheckout(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if owner := session.Metadata["user_id"]; owner != "" && owner != user.ID {
		return nil, fmt.Errorf("%s: session belongs to another user: %w", op, apperr.ErrForbidden)
	}

	if session.PaymentStatus == paymentprovider.PaymentStatusPaid {
		applied, err := s.repo.ApplyPaidCheckout(ctx, models.PaidCheckout{
			SessionID: session.ID,
			UserID:    user.ID,
			Email:     user.Email,
			Amount:    float64(session.AmountTotal) / 100,
			Currency:  session.Currency,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if applied {
			metrics.VipActivations.WithLabelValues("poll").Inc()
			s.log.Info("vip activated", slog.String("user_id", user.ID), slog.String("session_id", session.ID),
				slog.String("path", "poll"))
		}
	}

	return &models.CheckoutStatus{
		Status:        session.Status,
		PaymentStatus: session.PaymentStatus,
		AmountTotal:   session.AmountTotal,
		Currency:      session.Currency,
	}, nil
}

// HandleWebhookEvent проверяет подпись и применяет оплату из события
// checkout.session.completed. Получатель VIP берётся из metadata.user_id.
// Ошибки не возвращаются наружу, а превращаются в WebhookResult со статусом error.
func (s *Service) HandleWebhookEvent(ctx context.Context, body []byte, signature string) WebhookResult {
	const op = "subscription.HandleWebhookEvent"
	log := s.log.With(slog.String("op", op))

	err := s.handleWebhook(ctx, log, body, signature)
	if err != nil {
		log.Error("webhook processing failed", sl.Err(err))
		metrics.WebhookResults.WithLabelValues(WebhookError).Inc()
		return WebhookResult{Status: WebhookError, Message: webhookMessage(err)}
	}
	metrics.WebhookResults.WithLabelValues(WebhookSuccess).Inc()
	return WebhookResult{Status: WebhookSuccess}
}

func (s *Service) handleWebhook(ctx context.Context, log *slog.Logger, body []byte, signature string) error {
	if s.provider == nil {
		return fmt.Errorf("payment provider: %w", apperr.ErrConfigurationMissing)
	}
	event, err := s.provider.ParseWebhook(body, signature)
	if err != nil {
		return err
	}
	// VIP выдаётся по любому событию сессии, где оплата уже прошла.
	if event.Session == nil || event.Session.PaymentStatus != paymentprovider.PaymentStatusPaid {
		log.Debug("webhook event ignored", slog.String("type", event.Type))
		return nil
	}

	session := event.Session
	userID := session.Metadata["user_id"]
	if userID == "" {
		return fmt.Errorf("session %s: missing user_id metadata", session.ID)
	}
	applied, err := s.repo.ApplyPaidCheckout(ctx, models.PaidCheckout{
		SessionID: session.ID,
		UserID:    userID,
		Email:     session.Metadata["user_email"],
		Amount:    float64(session.AmountTotal) / 100,
		Currency:  session.Currency,
	})
	if err != nil {
		return err
	}
	if applied {
		metrics.VipActivations.WithLabelValues("webhook").Inc()
		log.Info("vip activated", slog.String("user_id", userID), slog.String("session_id", session.ID),
			slog.String("path", "webhook"))
	}
	return nil
}

func webhookMessage(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInvalidSignature):
		return apperr.ErrInvalidSignature.Error()
	case errors.Is(err, apperr.ErrConfigurationMissing):
		return "payment provider not configured"
	default:
		return err.Error()
	}
}
