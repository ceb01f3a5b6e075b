package status

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

func (m *ServiceMock) IsSubscribed(ctx context.Context, user *models.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func TestStatusHandler_ServeHTTP(t *testing.T) {
	user := &models.User{ID: "u-1"}

	for _, subscribed := range []bool{true, false} {
		svc := new(ServiceMock)
		svc.On("IsSubscribed", mock.Anything, user).Return(subscribed, nil).Once()

		code, env := handlertest.Do(t, New(handlertest.NewNoopLogger(), svc), handlertest.Request{User: user})

		assert.Equal(t, http.StatusOK, code)
		var got Result
		handlertest.DecodeData(t, env, &got)
		assert.Equal(t, subscribed, got.Subscribed)
	}

	code, _ := handlertest.Do(t, New(handlertest.NewNoopLogger(), new(ServiceMock)), handlertest.Request{})
	assert.Equal(t, http.StatusUnauthorized, code)
}
