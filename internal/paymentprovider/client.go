// Package paymentprovider оборачивает Stripe Checkout: создание и чтение
// checkout-сессий и проверку подписи webhook.
package paymentprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
)

// Client клиент Stripe Checkout.
type Client struct {
	sc            *client.API
	webhookSecret string
}

// NewClient создаёт клиент Stripe. baseURL пустой для боевого API.
// Повторы запросов отключены.
func NewClient(apiKey, webhookSecret string, timeout time.Duration, baseURL string) *Client {
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if baseURL != "" {
		cfg.URL = stripe.String(baseURL)
	}
	api := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	backends := &stripe.Backends{
		API:     api,
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
	return &Client{
		sc:            client.New(apiKey, backends),
		webhookSecret: webhookSecret,
	}
}

// CreateCheckout создаёт платёжную checkout-сессию на одну позицию.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Session, error) {
	const op = "paymentprovider.CreateCheckout"
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
					UnitAmount: stripe.Int64(req.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := c.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return toSession(s), nil
}

// GetCheckout читает текущее состояние сессии у провайдера.
func (c *Client) GetCheckout(ctx context.Context, sessionID string) (*Session, error) {
	const op = "paymentprovider.GetCheckout"
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := c.sc.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return toSession(s), nil
}

// ParseWebhook проверяет подпись Stripe-Signature и разбирает событие.
func (c *Client) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	const op = "paymentprovider.ParseWebhook"
	if c.webhookSecret == "" {
		return nil, fmt.Errorf("%s: webhook secret: %w", op, apperr.ErrConfigurationMissing)
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, apperr.ErrInvalidSignature, err)
	}

	result := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if strings.HasPrefix(string(event.Type), checkoutEventPrefix) && event.Data != nil {
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Session = toSession(&s)
	}
	return result, nil
}

func toSession(s *stripe.CheckoutSession) *Session {
	return &Session{
		ID:            s.ID,
		URL:           s.URL,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		Metadata:      s.Metadata,
	}
}

func mapError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("%w: %s", apperr.ErrUpstreamRejected, stripeErr.Msg)
	}
	return fmt.Errorf("%w: %v", apperr.ErrUpstreamUnavailable, err)
}
