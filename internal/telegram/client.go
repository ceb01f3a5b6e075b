// Package telegram читает посты канала через Bot API getUpdates.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

const failureThreshold = 5

// Client клиент Bot API. Бот создаётся при первом запросе, так как NewBotAPI ходит в сеть.
type Client struct {
	token       string
	apiEndpoint string
	httpClient  *http.Client
	limit       int

	mu  sync.Mutex
	bot *tgbotapi.BotAPI

	cb *gobreaker.CircuitBreaker[[]tgbotapi.Update]
}

// New создаёт клиент. apiEndpoint пустой для api.telegram.org.
func New(token string, limit int, timeout time.Duration, apiEndpoint string) *Client {
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}
	if limit <= 0 {
		limit = 100
	}
	c := &Client{
		token:       token,
		apiEndpoint: apiEndpoint,
		httpClient:  &http.Client{Timeout: timeout},
		limit:       limit,
	}
	c.cb = gobreaker.NewCircuitBreaker[[]tgbotapi.Update](gobreaker.Settings{
		Name:        "telegram",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, apperr.ErrUpstreamUnavailable)
		},
	})
	return c
}

// FetchUpdates возвращает текстовые посты из getUpdates. Посты канала
// предпочтительнее, обычные сообщения тоже принимаются.
func (c *Client) FetchUpdates(ctx context.Context) ([]models.ChannelMessage, error) {
	const op = "telegram.FetchUpdates"
	if c.token == "" {
		return nil, fmt.Errorf("%s: bot token: %w", op, apperr.ErrConfigurationMissing)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updates, err := c.cb.Execute(func() ([]tgbotapi.Update, error) {
		bot, err := c.botAPI()
		if err != nil {
			return nil, err
		}
		u := tgbotapi.UpdateConfig{
			Limit:          c.limit,
			AllowedUpdates: []string{"channel_post"},
		}
		updates, err := bot.GetUpdates(u)
		if err != nil {
			return nil, mapError(err)
		}
		return updates, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s: circuit open: %w", op, apperr.ErrUpstreamUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	messages := make([]models.ChannelMessage, 0, len(updates))
	for _, upd := range updates {
		msg := upd.ChannelPost
		if msg == nil {
			msg = upd.Message
		}
		if msg == nil || msg.Text == "" {
			continue
		}
		messages = append(messages, models.ChannelMessage{
			ID:   int64(msg.MessageID),
			Date: time.Unix(int64(msg.Date), 0).UTC(),
			Text: msg.Text,
		})
	}
	return messages, nil
}

func (c *Client) botAPI() (*tgbotapi.BotAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bot != nil {
		return c.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(c.token, c.apiEndpoint, c.httpClient)
	if err != nil {
		return nil, mapError(err)
	}
	c.bot = bot
	return bot, nil
}

func mapError(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %d %s", apperr.ErrUpstreamRejected, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("%w: %v", apperr.ErrUpstreamUnavailable, err)
}
