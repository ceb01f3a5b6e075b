package update

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/syndicate/internal/http/handlers/handlertest"
	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) UpdatePickOutcome(ctx context.Context, id string, status models.PickStatus, home, away *int) (*models.Pick, error) {
	args := m.Called(ctx, id, status, home, away)
	p, _ := args.Get(0).(*models.Pick)
	return p, args.Error(1)
}

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	two, one := 2, 1

	t.Run("settles with score", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("UpdatePickOutcome", mock.Anything, "pick-1", models.StatusWon, &two, &one).
			Return(&models.Pick{ID: "pick-1", Status: models.StatusWon, HomeScore: &two, AwayScore: &one}, nil).Once()

		code, env := handlertest.Do(t, New(handlertest.NewNoopLogger(), svc), handlertest.Request{
			Method: http.MethodPut, Path: "/api/admin/bets/pick-1", Params: map[string]string{"id": "pick-1"},
			Body: models.DummyOutcome{Status: "won", HomeScore: &two, AwayScore: &one},
		})

		assert.Equal(t, http.StatusOK, code)
		var got models.Pick
		handlertest.DecodeData(t, env, &got)
		assert.Equal(t, models.StatusWon, got.Status)
		svc.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("UpdatePickOutcome", mock.Anything, "missing", models.StatusLost, (*int)(nil), (*int)(nil)).
			Return(nil, fmt.Errorf("picks.UpdatePickOutcome: %w", apperr.ErrNotFound)).Once()

		code, env := handlertest.Do(t, New(handlertest.NewNoopLogger(), svc), handlertest.Request{
			Method: http.MethodPut, Params: map[string]string{"id": "missing"},
			Body: models.DummyOutcome{Status: "lost"},
		})

		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "bet not found", env.Error)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := new(ServiceMock)
		code, env := handlertest.Do(t, New(handlertest.NewNoopLogger(), svc), handlertest.Request{
			Method: http.MethodPut, Params: map[string]string{"id": "pick-1"},
			Body: map[string]any{"status": "void"},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, "field Status must be one of: pending won lost", env.Error)
		svc.AssertNotCalled(t, "UpdatePickOutcome")
	})
}
