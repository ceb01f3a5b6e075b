package models

import (
	"fmt"
	"time"
)

// PickStatus жизненный цикл пика: pending, затем won или lost.
type PickStatus string

const (
	StatusPending PickStatus = "pending"
	StatusWon     PickStatus = "won"
	StatusLost    PickStatus = "lost"
)

// ParsePickStatus отклоняет значения вне перечисления.
func ParsePickStatus(s string) (PickStatus, error) {
	switch st := PickStatus(s); st {
	case StatusPending, StatusWon, StatusLost:
		return st, nil
	}
	return "", fmt.Errorf("unknown pick status %q", s)
}

// Settled сообщает, рассчитан ли пик.
func (s PickStatus) Settled() bool {
	return s == StatusWon || s == StatusLost
}

// BetType рынок ставки.
type BetType string

const (
	BetOver25  BetType = "Over 2.5"
	BetUnder25 BetType = "Under 2.5"
	BetOver15  BetType = "Over 1.5"
	BetUnder15 BetType = "Under 1.5"
	BetOver35  BetType = "Over 3.5"
	BetBTTSYes BetType = "BTTS Yes"
	BetBTTSNo  BetType = "BTTS No"
)

// BetTypes перечисляет допустимые рынки.
var BetTypes = []BetType{BetOver25, BetUnder25, BetOver15, BetUnder15, BetOver35, BetBTTSYes, BetBTTSNo}

// ParseBetType отклоняет значения вне перечисления.
func ParseBetType(s string) (BetType, error) {
	for _, bt := range BetTypes {
		if string(bt) == s {
			return bt, nil
		}
	}
	return "", fmt.Errorf("unknown bet type %q", s)
}

// Tier уровень доступа к ленте.
type Tier string

const (
	TierFree Tier = "free"
	TierVip  Tier = "vip"
)

// Section раздел ленты.
type Section string

const (
	SectionUpcoming Section = "upcoming"
	SectionResults  Section = "results"
)

// DateLayout формат календарной корзины пика.
const DateLayout = "2006-01-02"

// Pick прогноз на матч.
type Pick struct {
	ID                string     `json:"id"`
	HomeTeam          string     `json:"home_team"`
	AwayTeam          string     `json:"away_team"`
	League            string     `json:"league"`
	BetType           BetType    `json:"bet_type"`
	Odds              float64    `json:"odds"`
	Stake             int        `json:"stake"`
	KickOff           time.Time  `json:"kick_off"`
	IsVip             bool       `json:"is_vip"`
	Status            PickStatus `json:"status"`
	HomeScore         *int       `json:"home_score"`
	AwayScore         *int       `json:"away_score"`
	CreatedAt         time.Time  `json:"created_at"`
	Date              string     `json:"date"`
	TelegramMessageID *int64     `json:"telegram_message_id,omitempty"`
}

// PickInput данные для создания пика после валидации.
type PickInput struct {
	HomeTeam string
	AwayTeam string
	League   string
	BetType  BetType
	Odds     float64
	Stake    int
	KickOff  time.Time
	IsVip    bool
}

// DummyPick тело запроса создания пика. kick_off в RFC3339.
// bet_type содержит пробелы, поэтому проверяется через ParseBetType, а не тегом oneof.
type DummyPick struct {
	HomeTeam string  `json:"home_team" validate:"required"`
	AwayTeam string  `json:"away_team" validate:"required"`
	League   string  `json:"league" validate:"required"`
	BetType  string  `json:"bet_type" validate:"required"`
	Odds     float64 `json:"odds" validate:"required,gte=1"`
	Stake    int     `json:"stake" validate:"required,min=1,max=10"`
	KickOff  string  `json:"kick_off" validate:"required"`
	IsVip    bool    `json:"is_vip"`
}

// DummyOutcome тело запроса обновления результата.
type DummyOutcome struct {
	Status    string `json:"status" validate:"required,oneof=pending won lost"`
	HomeScore *int   `json:"home_score" validate:"omitempty,min=0"`
	AwayScore *int   `json:"away_score" validate:"omitempty,min=0"`
}

// PickFilter условия выборки пиков. Пустые поля не ограничивают выборку.
type PickFilter struct {
	Date     string
	Statuses []PickStatus
	IsVip    *bool
	Desc     bool
	Limit    int
}

// Stats сводка по рассчитанным пикам.
type Stats struct {
	TotalSettled   int     `json:"total_bets"`
	Won            int     `json:"won_bets"`
	Lost           int     `json:"lost_bets"`
	WinRatePercent float64 `json:"win_rate"`
}

// ChannelMessage текстовый пост канала.
type ChannelMessage struct {
	ID   int64
	Date time.Time
	Text string
}
