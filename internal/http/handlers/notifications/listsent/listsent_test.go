package listsent

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/syndicate/internal/http/handlers/handlertest"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListSent(ctx context.Context) ([]models.Notification, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Notification)
	return list, args.Error(1)
}

func TestListSentHandler_ServeHTTP(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("ListSent", mock.Anything).Return([]models.Notification{
		{ID: "n-1", Title: "Bets live", Recipients: 12, SentBy: "admin-1"},
	}, nil).Once()

	code, env := handlertest.Do(t, New(handlertest.NewNoopLogger(), svc), handlertest.Request{Path: "/api/admin/notifications"})

	assert.Equal(t, http.StatusOK, code)
	var got []models.Notification
	handlertest.DecodeData(t, env, &got)
	assert.Equal(t, 12, got[0].Recipients)
	assert.Equal(t, "admin-1", got[0].SentBy)
	svc.AssertExpectations(t)
}
