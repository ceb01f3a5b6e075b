package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

type sessionsMock struct {
	mock.Mock
}

func (m *sessionsMock) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type adminsMock struct {
	mock.Mock
}

func (m *adminsMock) SetAdmin(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func TestService_RequireAuthenticated(t *testing.T) {
	user := &models.User{ID: "u1"}
	sessions := new(sessionsMock)
	sessions.On("ResolveSession", mock.Anything, "good").Return(user, nil)
	sessions.On("ResolveSession", mock.Anything, "expired").Return(nil, apperr.ErrTokenExpired)
	svc := New(sessions, new(adminsMock), "code")

	tests := []struct {
		name    string
		header  string
		want    *models.User
		wantErr error
	}{
		{name: "valid bearer", header: "Bearer good", want: user},
		{name: "lowercase scheme", header: "bearer good", want: user},
		{name: "empty header", header: "", wantErr: apperr.ErrTokenMissing},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: apperr.ErrTokenMissing},
		{name: "bearer without token", header: "Bearer ", wantErr: apperr.ErrTokenMissing},
		{name: "expired token", header: "Bearer expired", wantErr: apperr.ErrTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.RequireAuthenticated(context.Background(), tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_FreshUserHasNoCapabilities(t *testing.T) {
	svc := New(new(sessionsMock), new(adminsMock), "code")
	fresh := &models.User{ID: "u1", SubscriptionStatus: models.SubscriptionNone}

	assert.ErrorIs(t, svc.RequireVip(fresh), apperr.ErrForbidden)
	assert.ErrorIs(t, svc.RequireAdmin(fresh), apperr.ErrForbidden)
}

func TestService_AdminIsNotVip(t *testing.T) {
	svc := New(new(sessionsMock), new(adminsMock), "code")
	admin := &models.User{ID: "a1", IsAdmin: true}

	assert.NoError(t, svc.RequireAdmin(admin))
	assert.ErrorIs(t, svc.RequireVip(admin), apperr.ErrForbidden)
	assert.NoError(t, svc.RequireVip(&models.User{IsVip: true}))
}

func TestService_ElevateToAdmin(t *testing.T) {
	admins := new(adminsMock)
	admins.On("SetAdmin", mock.Anything, "u1").Return(nil).Once()
	svc := New(new(sessionsMock), admins, "syndicate2024")

	u1 := &models.User{ID: "u1"}
	u2 := &models.User{ID: "u2"}

	require.NoError(t, svc.ElevateToAdmin(context.Background(), u1, "syndicate2024"))
	assert.True(t, u1.IsAdmin)
	assert.False(t, u2.IsAdmin)

	err := svc.ElevateToAdmin(context.Background(), u2, "wrong")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.False(t, u2.IsAdmin)

	admins.AssertExpectations(t)
	admins.AssertNotCalled(t, "SetAdmin", mock.Anything, "u2")
}

func TestService_ElevateToAdmin_Disabled(t *testing.T) {
	admins := new(adminsMock)
	svc := New(new(sessionsMock), admins, "")

	err := svc.ElevateToAdmin(context.Background(), &models.User{ID: "u1"}, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	admins.AssertNotCalled(t, "SetAdmin", mock.Anything, mock.Anything)
}
