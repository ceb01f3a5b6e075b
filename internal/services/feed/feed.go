// Package feed импортирует результаты из постов Telegram-канала в ленту пиков.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/metrics"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

const (
	importedLeague = "Imported"
	previewRunes   = 200
)

// ChannelClient источник постов канала.
type ChannelClient interface {
	FetchUpdates(ctx context.Context) ([]models.ChannelMessage, error)
}

// PickRepository хранилище импортированных пиков.
type PickRepository interface {
	CreatePick(ctx context.Context, p *models.Pick) error
	InsertImportedPick(ctx context.Context, p *models.Pick) (bool, error)
	PickExistsByMessageID(ctx context.Context, messageID int64) (bool, error)
}

// Invalidator сбрасывает кэш лент после импорта.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Preview разобранный пост для просмотра перед импортом.
type Preview struct {
	MessageID int64       `json:"message_id"`
	Date      string      `json:"date"`
	Text      string      `json:"text"`
	Parsed    *ParsedPick `json:"parsed"`
}

// ImportResult итог пакетного импорта.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Service конвейер импорта.
type Service struct {
	log         *slog.Logger
	channel     ChannelClient
	repo        PickRepository
	invalidator Invalidator
	now         func() time.Time
}

// New создаёт сервис. channel равен nil, если бот не настроен; invalidator может быть nil.
func New(log *slog.Logger, channel ChannelClient, repo PickRepository, invalidator Invalidator) *Service {
	return &Service{
		log:         log,
		channel:     channel,
		repo:        repo,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// FetchChannelUpdates возвращает текстовые посты канала.
func (s *Service) FetchChannelUpdates(ctx context.Context) ([]models.ChannelMessage, error) {
	const op = "feed.FetchChannelUpdates"
	if s.channel == nil {
		return nil, fmt.Errorf("%s: telegram bot: %w", op, apperr.ErrConfigurationMissing)
	}
	msgs, err := s.channel.FetchUpdates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msgs, nil
}

// PreviewUpdates возвращает только разбираемые посты, текст обрезан до 200 символов.
func (s *Service) PreviewUpdates(ctx context.Context) ([]Preview, error) {
	const op = "feed.PreviewUpdates"
	msgs, err := s.FetchChannelUpdates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	previews := make([]Preview, 0, len(msgs))
	for _, msg := range msgs {
		parsed, ok := ParseMessage(msg.Text)
		if !ok {
			continue
		}
		previews = append(previews, Preview{
			MessageID: msg.ID,
			Date:      msg.Date.UTC().Format(time.RFC3339),
			Text:      truncateRunes(msg.Text, previewRunes),
			Parsed:    parsed,
		})
	}
	return previews, nil
}

// ImportBatch сохраняет разобранные посты как рассчитанные пики.
// Уже импортированные посты (по id сообщения) пропускаются, в том числе
// вставленные параллельным импортом.
func (s *Service) ImportBatch(ctx context.Context) (ImportResult, error) {
	const op = "feed.ImportBatch"
	log := s.log.With(slog.String("op", op))

	msgs, err := s.FetchChannelUpdates(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var res ImportResult
	for _, msg := range msgs {
		parsed, ok := ParseMessage(msg.Text)
		if !ok {
			continue
		}

		exists, err := s.repo.PickExistsByMessageID(ctx, msg.ID)
		if err != nil {
			return res, fmt.Errorf("%s: %w", op, err)
		}
		if exists {
			res.Skipped++
			continue
		}

		messageID := msg.ID
		p := importedPick(parsed, msg.Date)
		p.TelegramMessageID = &messageID
		inserted, err := s.repo.InsertImportedPick(ctx, p)
		if err != nil {
			return res, fmt.Errorf("%s: %w", op, err)
		}
		if !inserted {
			res.Skipped++
			continue
		}
		res.Imported++
	}

	metrics.PicksImported.Add(float64(res.Imported))
	metrics.PicksSkipped.Add(float64(res.Skipped))
	if res.Imported > 0 {
		s.invalidate(ctx)
	}
	log.Info("channel import finished", slog.Int("imported", res.Imported), slog.Int("skipped", res.Skipped))
	return res, nil
}

// ImportSingle сохраняет пик из вставленного вручную текста. Дедупликации нет.
func (s *Service) ImportSingle(ctx context.Context, text string) (*models.Pick, error) {
	const op = "feed.ImportSingle"
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: no text provided: %w", op, apperr.ErrUnparseable)
	}
	parsed, ok := ParseMessage(text)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrUnparseable)
	}

	p := importedPick(parsed, s.now())
	if err := s.repo.CreatePick(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.PicksImported.Inc()
	s.invalidate(ctx)
	return p, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}

func importedPick(parsed *ParsedPick, kickOff time.Time) *models.Pick {
	kickOff = kickOff.UTC()
	status := models.StatusLost
	if parsed.Won {
		status = models.StatusWon
	}
	return &models.Pick{
		ID:        uuid.New().String(),
		HomeTeam:  parsed.HomeTeam,
		AwayTeam:  parsed.AwayTeam,
		League:    importedLeague,
		BetType:   parsed.BetType,
		Odds:      parsed.Odds,
		Stake:     parsed.Stake,
		KickOff:   kickOff,
		IsVip:     false,
		Status:    status,
		HomeScore: parsed.HomeScore,
		AwayScore: parsed.AwayScore,
		Date:      kickOff.Format(models.DateLayout),
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
