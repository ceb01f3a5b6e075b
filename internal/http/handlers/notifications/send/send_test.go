package send

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/syndicate/internal/http/handlers/handlertest"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Send(ctx context.Context, admin *models.User, title, body string, nt models.NotificationType) (*models.Notification, error) {
	args := m.Called(ctx, admin, title, body, nt)
	if n := args.Get(0); n != nil {
		return n.(*models.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSendHandler_ServeHTTP(t *testing.T) {
	admin := &models.User{ID: "admin-1", IsAdmin: true}
	sent := &models.Notification{
		ID:         "n-1",
		Title:      "Bets live",
		Body:       "Today's picks are up",
		Type:       models.NotificationBetsLive,
		SentAt:     time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		SentBy:     "admin-1",
		Recipients: 3,
	}

	tests := []struct {
		name       string
		body       any
		mockSetup  func(m *ServiceMock)
		wantStatus int
		wantError  string
	}{
		{
			name: "success",
			body: models.DummyNotification{Title: "Bets live", Body: "Today's picks are up", Type: "bets_live"},
			mockSetup: func(m *ServiceMock) {
				m.On("Send", mock.Anything, admin, "Bets live", "Today's picks are up", models.NotificationBetsLive).
					Return(sent, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown type",
			body:       models.DummyNotification{Title: "x", Body: "y", Type: "spam"},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "field Type must be one of: bets_live results custom",
		},
		{
			name:       "missing title",
			body:       models.DummyNotification{Body: "y", Type: "custom"},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "field Title is a required field",
		},
		{
			name: "storage failure",
			body: models.DummyNotification{Title: "x", Body: "y", Type: "custom"},
			mockSetup: func(m *ServiceMock) {
				m.On("Send", mock.Anything, admin, "x", "y", models.NotificationCustom).
					Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.mockSetup != nil {
				tt.mockSetup(svc)
			}

			code, env := handlertest.Do(t, New(handlertest.NewNoopLogger(), svc), handlertest.Request{
				Method: http.MethodPost,
				Path:   "/api/admin/notifications/send",
				Body:   tt.body,
				User:   admin,
			})

			assert.Equal(t, tt.wantStatus, code)
			assert.Equal(t, tt.wantError, env.Error)
			if tt.wantStatus == http.StatusOK {
				var got models.Notification
				handlertest.DecodeData(t, env, &got)
				assert.Equal(t, 3, got.Recipients)
				assert.Equal(t, models.NotificationBetsLive, got.Type)
			}
			svc.AssertExpectations(t)
		})
	}
}
