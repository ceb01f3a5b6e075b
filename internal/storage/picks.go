package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

const pickColumns = `id, home_team, away_team, league, bet_type, odds, stake, kick_off, is_vip, status,
	home_score, away_score, created_at, date, telegram_message_id`

type scanner interface {
	Scan(dest ...any) error
}

// CreatePick вставляет пик. created_at заполняется базой.
func (s *Storage) CreatePick(ctx context.Context, p *models.Pick) error {
	const op = "storage.CreatePick"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	query := `
		INSERT INTO picks (id, home_team, away_team, league, bet_type, odds, stake, kick_off,
			is_vip, status, home_score, away_score, date, telegram_message_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at`
	err := s.DB.QueryRowContext(ctx, query, pickArgs(p)...).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// InsertImportedPick вставляет импортированный пик, если пик с тем же
// telegram_message_id ещё не сохранён. false означает дубликат.
func (s *Storage) InsertImportedPick(ctx context.Context, p *models.Pick) (bool, error) {
	const op = "storage.InsertImportedPick"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}
	query := `
		INSERT INTO picks (id, home_team, away_team, league, bet_type, odds, stake, kick_off,
			is_vip, status, home_score, away_score, date, telegram_message_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (telegram_message_id) WHERE telegram_message_id IS NOT NULL DO NOTHING
		RETURNING created_at`
	err := s.DB.QueryRowContext(ctx, query, pickArgs(p)...).Scan(&p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// PickExistsByMessageID проверяет, импортировано ли уже сообщение канала.
func (s *Storage) PickExistsByMessageID(ctx context.Context, messageID int64) (bool, error) {
	const op = "storage.PickExistsByMessageID"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM picks WHERE telegram_message_id = $1)`, messageID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// GetPick возвращает пик по id.
func (s *Storage) GetPick(ctx context.Context, id string) (*models.Pick, error) {
	const op = "storage.GetPick"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	p, err := scanPick(s.DB.QueryRowContext(ctx, `SELECT `+pickColumns+` FROM picks WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPicks выбирает пики по фильтру, сортируя по kick_off.
func (s *Storage) ListPicks(ctx context.Context, f models.PickFilter) ([]models.Pick, error) {
	const op = "storage.ListPicks"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)
	if f.Date != "" {
		args = append(args, f.Date)
		conds = append(conds, fmt.Sprintf("date = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		placeholders := make([]string, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			args = append(args, string(st))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conds = append(conds, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if f.IsVip != nil {
		args = append(args, *f.IsVip)
		conds = append(conds, fmt.Sprintf("is_vip = $%d", len(args)))
	}

	query := `SELECT ` + pickColumns + ` FROM picks`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	if f.Desc {
		query += ` ORDER BY kick_off DESC`
	} else {
		query += ` ORDER BY kick_off ASC`
	}
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	picks := make([]models.Pick, 0)
	for rows.Next() {
		p, err := scanPick(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		picks = append(picks, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return picks, nil
}

// UpdatePickOutcome перезаписывает статус и, если переданы, счёт матча.
func (s *Storage) UpdatePickOutcome(ctx context.Context, id string, status models.PickStatus, homeScore, awayScore *int) (*models.Pick, error) {
	const op = "storage.UpdatePickOutcome"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	query := `
		UPDATE picks
		SET status = $2,
			home_score = COALESCE($3, home_score),
			away_score = COALESCE($4, away_score)
		WHERE id = $1
		RETURNING ` + pickColumns
	p, err := scanPick(s.DB.QueryRowContext(ctx, query, id, string(status), homeScore, awayScore))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// DeletePick удаляет пик. Отсутствующий id даёт apperr.ErrNotFound.
func (s *Storage) DeletePick(ctx context.Context, id string) error {
	const op = "storage.DeletePick"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	res, err := s.DB.ExecContext(ctx, `DELETE FROM picks WHERE id = $1`, id)
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

// CountSettled считает выигранные и проигранные пики по всем уровням.
func (s *Storage) CountSettled(ctx context.Context) (won, lost int, err error) {
	const op = "storage.CountSettled"
	if err := checkCtx(ctx, op); err != nil {
		return 0, 0, err
	}
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'won'),
			COUNT(*) FILTER (WHERE status = 'lost')
		FROM picks`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&won, &lost); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return won, lost, nil
}

func pickArgs(p *models.Pick) []any {
	return []any{
		p.ID, p.HomeTeam, p.AwayTeam, p.League, string(p.BetType), p.Odds, p.Stake, p.KickOff,
		p.IsVip, string(p.Status), p.HomeScore, p.AwayScore, p.Date, p.TelegramMessageID,
	}
}

func scanPick(row scanner) (*models.Pick, error) {
	var (
		p         models.Pick
		homeScore sql.NullInt32
		awayScore sql.NullInt32
		messageID sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.HomeTeam, &p.AwayTeam, &p.League, &p.BetType, &p.Odds, &p.Stake,
		&p.KickOff, &p.IsVip, &p.Status, &homeScore, &awayScore, &p.CreatedAt, &p.Date, &messageID)
	if err != nil {
		return nil, err
	}
	if homeScore.Valid {
		v := int(homeScore.Int32)
		p.HomeScore = &v
	}
	if awayScore.Valid {
		v := int(awayScore.Int32)
		p.AwayScore = &v
	}
	if messageID.Valid {
		v := messageID.Int64
		p.TelegramMessageID = &v
	}
	return &p, nil
}
