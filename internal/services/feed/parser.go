package feed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/syndicate/internal/models"
)

const (
	defaultStake = 5
	maxStake     = 10
	defaultOdds  = 1.80
)

var (
	vsSplit    = regexp.MustCompile(`(?i) vs `)
	firstInt   = regexp.MustCompile(`[0-9]+`)
	firstFloat = regexp.MustCompile(`[0-9]+\.?[0-9]*`)
	scorePair  = regexp.MustCompile(`([0-9]+)\s*[-:]\s*([0-9]+)`)

	// строки с этими префиксами не считаются строкой матча
	markerPrefixes = []string{"⚽", "📈", "📦", "⏰", "✅", "❌"}

	betTypePriority = []models.BetType{
		models.BetOver25,
		models.BetUnder25,
		models.BetOver15,
		models.BetUnder15,
		models.BetOver35,
	}
)

// ParsedPick пик, извлечённый из текста поста.
type ParsedPick struct {
	HomeTeam  string         `json:"home_team"`
	AwayTeam  string         `json:"away_team"`
	BetType   models.BetType `json:"bet_type"`
	Stake     int            `json:"stake"`
	Odds      float64        `json:"odds"`
	Won       bool           `json:"is_won"`
	HomeScore *int           `json:"home_score"`
	AwayScore *int           `json:"away_score"`
}

// ParseMessage разбирает пост канала построчно.
// false, если не найдены команды или рынок ставки.
//
// Пример поста:
//
//	Marseille v Rennes
//	⚽ Over 2.5 Goals ✅
//	📈 Points - 5
//	📦 Odds - 1.37
func ParseMessage(text string) (*ParsedPick, bool) {
	p := &ParsedPick{Stake: defaultStake, Odds: defaultOdds}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.Contains(line, " v ") && !hasMarkerPrefix(line):
			if teams := strings.Split(line, " v "); len(teams) == 2 {
				p.HomeTeam, p.AwayTeam = strings.TrimSpace(teams[0]), strings.TrimSpace(teams[1])
			}
		case strings.Contains(strings.ToLower(line), " vs ") && !strings.HasPrefix(line, "⚽"):
			if teams := vsSplit.Split(line, -1); len(teams) == 2 {
				p.HomeTeam, p.AwayTeam = strings.TrimSpace(teams[0]), strings.TrimSpace(teams[1])
			}
		}

		if strings.Contains(line, "⚽") || strings.Contains(line, "Over") ||
			strings.Contains(line, "Under") || strings.Contains(line, "BTTS") {
			if bt, ok := betTypeFromLine(line); ok {
				p.BetType = bt
			}
			if strings.Contains(line, "✅") {
				p.Won = true
			}
		}

		if strings.Contains(line, "Points") || strings.Contains(line, "📈") {
			if m := firstInt.FindString(line); m != "" {
				p.Stake = parseStake(m)
			}
		}

		if strings.Contains(line, "Odds") || strings.Contains(line, "📦") {
			if m := firstFloat.FindString(line); m != "" {
				// коэффициент ниже 1 невозможен, остаётся значение по умолчанию
				if odds, err := strconv.ParseFloat(m, 64); err == nil && odds >= 1 {
					p.Odds = odds
				}
			}
		}

		if strings.Contains(line, "Result") {
			switch {
			case containsAny(line, "✅", "Full House", "Won", "Win"):
				p.Won = true
			case containsAny(line, "❌", "Lost", "Loss"):
				p.Won = false
			}
		}

		if containsAny(line, "Score", "FT", "Result") {
			if m := scorePair.FindStringSubmatch(line); m != nil {
				home, errH := strconv.Atoi(m[1])
				away, errA := strconv.Atoi(m[2])
				if errH == nil && errA == nil {
					p.HomeScore, p.AwayScore = &home, &away
				}
			}
		}
	}

	if p.HomeTeam == "" || p.AwayTeam == "" || p.BetType == "" {
		return nil, false
	}
	return p, true
}

func betTypeFromLine(line string) (models.BetType, bool) {
	for _, bt := range betTypePriority {
		if strings.Contains(line, string(bt)) {
			return bt, true
		}
	}
	if strings.Contains(strings.ToUpper(line), "BTTS") {
		if strings.Contains(line, "Yes") {
			return models.BetBTTSYes, true
		}
		return models.BetBTTSNo, true
	}
	return "", false
}

func parseStake(digits string) int {
	stake, err := strconv.Atoi(digits)
	switch {
	case err != nil || stake > maxStake:
		// переполнение тоже означает ставку больше максимума
		return maxStake
	case stake < 1:
		return 1
	}
	return stake
}

func hasMarkerPrefix(line string) bool {
	for _, prefix := range markerPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
