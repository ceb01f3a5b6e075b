// Package picks отвечает за видимость прогнозов: ленты по уровню доступа,
// админское управление пиками и сводную статистику.
package picks

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

const (
	tierListLimit  = 100
	adminListLimit = 1000

	cacheTTL      = 5 * time.Minute
	statsKey      = "stats"
	listKeyPrefix = "picks:"
	// счётчик поколения кэша; лежит вне префиксов, чтобы сброс его не удалял
	generationKey = "cachegen:picks"
)

// Repository хранилище пиков.
type Repository interface {
	CreatePick(ctx context.Context, p *models.Pick) error
	ListPicks(ctx context.Context, f models.PickFilter) ([]models.Pick, error)
	UpdatePickOutcome(ctx context.Context, id string, status models.PickStatus, homeScore, awayScore *int) (*models.Pick, error)
	DeletePick(ctx context.Context, id string) error
	CountSettled(ctx context.Context) (won, lost int, err error)
}

// Cache кэш публичных выборок.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Service движок видимости пиков.
type Service struct {
	log   *slog.Logger
	repo  Repository
	cache Cache
	now   func() time.Time
}

// New создаёт сервис. cache может быть nil.
func New(log *slog.Logger, repo Repository, cache Cache) *Service {
	return &Service{
		log:   log,
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// ListForTier возвращает раздел ленты для уровня доступа.
// Проверка права на VIP-уровень остаётся за вызывающим.
func (s *Service) ListForTier(ctx context.Context, tier models.Tier, section models.Section) ([]models.Pick, error) {
	const op = "picks.ListForTier"

	isVip := tier == models.TierVip
	filter := models.PickFilter{IsVip: &isVip, Limit: tierListLimit}
	var key string
	switch section {
	case models.SectionUpcoming:
		filter.Date = s.now().UTC().Format(models.DateLayout)
		filter.Statuses = []models.PickStatus{models.StatusPending}
		key = fmt.Sprintf("%supcoming:%s:%s", listKeyPrefix, tier, filter.Date)
	case models.SectionResults:
		filter.Statuses = []models.PickStatus{models.StatusWon, models.StatusLost}
		filter.Desc = true
		key = fmt.Sprintf("%sresults:%s", listKeyPrefix, tier)
	default:
		return nil, fmt.Errorf("%s: unknown section %q", op, section)
	}

	// поколение читается до хранилища: снимок, собранный до сброса,
	// запишется под старым поколением и больше не будет прочитан
	gen, cacheable := s.generation(ctx)
	key = fmt.Sprintf("%s:%d", key, gen)

	var cached []models.Pick
	if cacheable && s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	picks, err := s.repo.ListPicks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cacheable {
		s.cacheSet(ctx, key, picks)
	}
	return picks, nil
}

// ListAllForAdmin возвращает все пики, новые первыми.
func (s *Service) ListAllForAdmin(ctx context.Context) ([]models.Pick, error) {
	const op = "picks.ListAllForAdmin"
	picks, err := s.repo.ListPicks(ctx, models.PickFilter{Desc: true, Limit: adminListLimit})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return picks, nil
}

// ComputeStats считает процент выигранных среди рассчитанных пиков обоих уровней.
func (s *Service) ComputeStats(ctx context.Context) (models.Stats, error) {
	const op = "picks.ComputeStats"

	gen, cacheable := s.generation(ctx)
	key := fmt.Sprintf("%s:%d", statsKey, gen)

	var stats models.Stats
	if cacheable && s.cacheGet(ctx, key, &stats) {
		return stats, nil
	}

	won, lost, err := s.repo.CountSettled(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("%s: %w", op, err)
	}
	stats = models.Stats{TotalSettled: won + lost, Won: won, Lost: lost}
	if stats.TotalSettled > 0 {
		stats.WinRatePercent = math.Round(float64(won)/float64(stats.TotalSettled)*1000) / 10
	}
	if cacheable {
		s.cacheSet(ctx, key, stats)
	}
	return stats, nil
}

// CreatePick сохраняет новый пик со статусом pending.
func (s *Service) CreatePick(ctx context.Context, in models.PickInput) (*models.Pick, error) {
	const op = "picks.CreatePick"

	kickOff := in.KickOff.UTC()
	p := &models.Pick{
		ID:       uuid.New().String(),
		HomeTeam: in.HomeTeam,
		AwayTeam: in.AwayTeam,
		League:   in.League,
		BetType:  in.BetType,
		Odds:     in.Odds,
		Stake:    in.Stake,
		KickOff:  kickOff,
		IsVip:    in.IsVip,
		Status:   models.StatusPending,
		Date:     kickOff.Format(models.DateLayout),
	}
	if err := s.repo.CreatePick(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.Invalidate(ctx)
	return p, nil
}

// UpdatePickOutcome записывает результат. Переход статуса не проверяется:
// администратор может вернуть рассчитанный пик в pending.
func (s *Service) UpdatePickOutcome(ctx context.Context, id string, status models.PickStatus, homeScore, awayScore *int) (*models.Pick, error) {
	const op = "picks.UpdatePickOutcome"
	p, err := s.repo.UpdatePickOutcome(ctx, id, status, homeScore, awayScore)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.Invalidate(ctx)
	return p, nil
}

// DeletePick удаляет пик.
func (s *Service) DeletePick(ctx context.Context, id string) error {
	const op = "picks.DeletePick"
	if err := s.repo.DeletePick(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.Invalidate(ctx)
	return nil
}

// Invalidate сбрасывает кэш выборок и статистики после изменения пиков:
// переводит кэш на новое поколение и удаляет снимки прежних.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, generationKey); err != nil {
		s.log.Warn("failed to bump cache generation", sl.Err(err))
	}
	if err := s.cache.InvalidatePrefix(ctx, statsKey+":"); err != nil {
		s.log.Warn("failed to invalidate stats cache", sl.Err(err))
	}
	if err := s.cache.InvalidatePrefix(ctx, listKeyPrefix); err != nil {
		s.log.Warn("failed to invalidate picks cache", sl.Err(err))
	}
}

// generation возвращает текущее поколение кэша. false, если кэш
// недоступен: тогда выборка идёт мимо кэша целиком.
func (s *Service) generation(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	var gen int64
	if _, err := s.cache.Get(ctx, generationKey, &gen); err != nil {
		s.log.Warn("cache generation read failed", sl.Err(err))
		return 0, false
	}
	return gen, true
}

func (s *Service) cacheGet(ctx context.Context, key string, result any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, cacheTTL); err != nil {
		s.log.Warn("cache write failed", slog.String("key", key), sl.Err(err))
	}
}
