package models

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePickStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    PickStatus
		wantErr bool
	}{
		{in: "pending", want: StatusPending},
		{in: "won", want: StatusWon},
		{in: "lost", want: StatusLost},
		{in: "void", wantErr: true},
		{in: "Won", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePickStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.True(t, StatusWon.Settled())
	assert.False(t, StatusPending.Settled())
}

func TestParseBetType(t *testing.T) {
	for _, bt := range BetTypes {
		got, err := ParseBetType(string(bt))
		require.NoError(t, err)
		assert.Equal(t, bt, got)
	}
	_, err := ParseBetType("Over 4.5")
	assert.Error(t, err)
}

func TestParseNotificationType(t *testing.T) {
	got, err := ParseNotificationType("bets_live")
	require.NoError(t, err)
	assert.Equal(t, NotificationBetsLive, got)

	_, err = ParseNotificationType("promo")
	assert.Error(t, err)
}

func TestDummyPick_Validation(t *testing.T) {
	validate := validator.New()
	valid := DummyPick{
		HomeTeam: "Marseille",
		AwayTeam: "Rennes",
		League:   "Ligue 1",
		BetType:  "BTTS Yes",
		Odds:     1.8,
		Stake:    5,
		KickOff:  "2025-01-01T20:00:00Z",
	}
	require.NoError(t, validate.Struct(valid))

	tests := []struct {
		name   string
		mutate func(p *DummyPick)
	}{
		{"missing bet type", func(p *DummyPick) { p.BetType = "" }},
		{"odds below one", func(p *DummyPick) { p.Odds = 0.5 }},
		{"stake above ten", func(p *DummyPick) { p.Stake = 11 }},
		{"missing home team", func(p *DummyPick) { p.HomeTeam = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.Error(t, validate.Struct(p))
		})
	}
}

func TestDummyOutcome_Validation(t *testing.T) {
	validate := validator.New()
	assert.NoError(t, validate.Struct(DummyOutcome{Status: "won"}))
	assert.Error(t, validate.Struct(DummyOutcome{Status: "void"}))
}
