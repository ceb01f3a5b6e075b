package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

type channelMock struct {
	mock.Mock
}

func (m *channelMock) FetchUpdates(ctx context.Context) ([]models.ChannelMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChannelMessage), args.Error(1)
}

// memRepo хранит пики в памяти с уникальностью по id сообщения.
type memRepo struct {
	mu       sync.Mutex
	picks    []models.Pick
	messages map[int64]bool
}

func newMemRepo() *memRepo {
	return &memRepo{messages: map[int64]bool{}}
}

func (r *memRepo) CreatePick(_ context.Context, p *models.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.picks = append(r.picks, *p)
	return nil
}

func (r *memRepo) InsertImportedPick(_ context.Context, p *models.Pick) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.messages[*p.TelegramMessageID] {
		return false, nil
	}
	r.messages[*p.TelegramMessageID] = true
	r.picks = append(r.picks, *p)
	return true, nil
}

func (r *memRepo) PickExistsByMessageID(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messages[id], nil
}

// racingRepo делает вид, что параллельный импорт успел вставить пик
// между проверкой и вставкой.
type racingRepo struct {
	*memRepo
}

func (r racingRepo) PickExistsByMessageID(context.Context, int64) (bool, error) {
	return false, nil
}

func (r racingRepo) InsertImportedPick(context.Context, *models.Pick) (bool, error) {
	return false, nil
}

type invalidatorSpy struct {
	calls int
}

func (s *invalidatorSpy) Invalidate(context.Context) {
	s.calls++
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var postDate = time.Date(2025, 3, 10, 21, 45, 0, 0, time.UTC)

func channelMessages() []models.ChannelMessage {
	return []models.ChannelMessage{
		{ID: 101, Date: postDate, Text: "Marseille v Rennes\n⚽ Over 2.5 Goals ✅\n📈 Points - 5\n📦 Odds - 1.37"},
		{ID: 102, Date: postDate.Add(time.Hour), Text: "Good morning everyone!"},
		{ID: 103, Date: postDate.Add(2 * time.Hour), Text: "Inter v Milan\n⚽ BTTS Yes\n❌ Result - Lost\nFT: 0-2"},
	}
}

func TestService_ImportBatch_Twice(t *testing.T) {
	ctx := context.Background()
	channel := new(channelMock)
	channel.On("FetchUpdates", mock.Anything).Return(channelMessages(), nil)
	repo := newMemRepo()
	spy := &invalidatorSpy{}
	svc := New(noopLogger(), channel, repo, spy)

	first, err := svc.ImportBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 2, Skipped: 0}, first)

	second, err := svc.ImportBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 0, Skipped: 2}, second)

	require.Len(t, repo.picks, 2)
	assert.Equal(t, 1, spy.calls, "cache is reset only when something was imported")

	won := repo.picks[0]
	assert.Equal(t, "Marseille", won.HomeTeam)
	assert.Equal(t, importedLeague, won.League)
	assert.Equal(t, models.StatusWon, won.Status)
	assert.Equal(t, postDate, won.KickOff)
	assert.Equal(t, "2025-03-10", won.Date)
	assert.False(t, won.IsVip)
	require.NotNil(t, won.TelegramMessageID)
	assert.Equal(t, int64(101), *won.TelegramMessageID)

	lost := repo.picks[1]
	assert.Equal(t, models.StatusLost, lost.Status)
	require.NotNil(t, lost.HomeScore)
	assert.Equal(t, 0, *lost.HomeScore)
	assert.Equal(t, 2, *lost.AwayScore)
}

func TestService_ImportBatch_ConcurrentDuplicateIsSkipped(t *testing.T) {
	channel := new(channelMock)
	channel.On("FetchUpdates", mock.Anything).Return(channelMessages(), nil)
	svc := New(noopLogger(), channel, racingRepo{newMemRepo()}, nil)

	res, err := svc.ImportBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 0, Skipped: 2}, res)
}

func TestService_ImportBatch_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		svc := New(noopLogger(), nil, newMemRepo(), nil)
		_, err := svc.ImportBatch(context.Background())
		assert.ErrorIs(t, err, apperr.ErrConfigurationMissing)
	})

	t.Run("upstream unavailable", func(t *testing.T) {
		channel := new(channelMock)
		channel.On("FetchUpdates", mock.Anything).
			Return(nil, errors.Join(apperr.ErrUpstreamUnavailable, errors.New("dial tcp: timeout")))
		repo := newMemRepo()
		svc := New(noopLogger(), channel, repo, nil)

		_, err := svc.ImportBatch(context.Background())
		assert.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
		assert.Empty(t, repo.picks)
	})
}

func TestService_PreviewUpdates(t *testing.T) {
	long := "Lyon v Nice\n⚽ Under 2.5\n" + strings.Repeat("⚽", 300)
	channel := new(channelMock)
	channel.On("FetchUpdates", mock.Anything).Return(append(channelMessages(),
		models.ChannelMessage{ID: 104, Date: postDate, Text: long}), nil)
	svc := New(noopLogger(), channel, newMemRepo(), nil)

	previews, err := svc.PreviewUpdates(context.Background())
	require.NoError(t, err)
	require.Len(t, previews, 3)

	assert.Equal(t, int64(101), previews[0].MessageID)
	assert.Equal(t, "2025-03-10T21:45:00Z", previews[0].Date)
	assert.Equal(t, models.BetOver25, previews[0].Parsed.BetType)
	assert.Len(t, []rune(previews[2].Text), previewRunes)
}

func TestService_ImportSingle(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := New(noopLogger(), nil, repo, nil)
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.ImportSingle(ctx, "Marseille v Rennes\n⚽ Over 2.5 Goals ✅\n📈 Points - 5\n📦 Odds - 1.37")
	require.NoError(t, err)
	assert.Equal(t, now, p.KickOff)
	assert.Equal(t, "2025-04-01", p.Date)
	assert.Equal(t, models.StatusWon, p.Status)
	assert.Nil(t, p.TelegramMessageID)
	assert.Len(t, repo.picks, 1)

	_, err = svc.ImportSingle(ctx, "   ")
	assert.ErrorIs(t, err, apperr.ErrUnparseable)

	_, err = svc.ImportSingle(ctx, "just chatting")
	assert.ErrorIs(t, err, apperr.ErrUnparseable)
	assert.Len(t, repo.picks, 1)
}
