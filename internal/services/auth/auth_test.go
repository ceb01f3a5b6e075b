package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	customjwt "github.com/magabrotheeeer/syndicate/internal/lib/jwt"
	"github.com/magabrotheeeer/syndicate/internal/lib/password"
	"github.com/magabrotheeeer/syndicate/internal/models"
	"github.com/magabrotheeeer/syndicate/internal/services/auth"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newService(repo *UserRepoMock) (*auth.Service, *customjwt.MakerImpl) {
	maker := customjwt.NewJWTMaker("test_secret", 720*time.Hour)
	return auth.New(repo, maker), maker
}

func storedUser(t *testing.T, email, rawPassword string) *models.User {
	t.Helper()
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)
	return &models.User{ID: "user-1", Email: email, Name: "Punter", PasswordHash: hash,
		SubscriptionStatus: models.SubscriptionNone}
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name: "successful registration",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "new@example.com").Return(nil, apperr.ErrNotFound).Once()
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					return u.Email == "new@example.com" &&
						u.Name == "Punter" &&
						u.PasswordHash != "" && u.PasswordHash != "secret123" &&
						!u.IsVip && !u.IsAdmin &&
						u.SubscriptionStatus == models.SubscriptionNone &&
						u.ID != ""
				})).Return(nil).Once()
			},
		},
		{
			name: "duplicate email on pre-check",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "new@example.com").
					Return(&models.User{ID: "existing"}, nil).Once()
			},
			wantErr: apperr.ErrDuplicateIdentity,
		},
		{
			name: "duplicate email on concurrent insert",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "new@example.com").Return(nil, apperr.ErrNotFound).Once()
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return(errors.Join(errors.New("storage.CreateUser"), apperr.ErrDuplicateIdentity)).Once()
			},
			wantErr: apperr.ErrDuplicateIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc, maker := newService(repo)

			token, user, err := svc.Register(context.Background(), "new@example.com", "secret123", "Punter")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.False(t, user.IsVip)
				assert.False(t, user.IsAdmin)
				claims, err := maker.ParseToken(token)
				require.NoError(t, err)
				assert.Equal(t, user.ID, claims.UserID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	user := storedUser(t, "punter@example.com", "correct-horse")

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:     "correct credentials",
			email:    "punter@example.com",
			password: "correct-horse",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "punter@example.com").Return(user, nil).Once()
			},
		},
		{
			name:     "wrong password",
			email:    "punter@example.com",
			password: "battery-staple",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "punter@example.com").Return(user, nil).Once()
			},
			wantErr: apperr.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "correct-horse",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, apperr.ErrNotFound).Once()
			},
			wantErr: apperr.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc, _ := newService(repo)

			token, got, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "auth.Login: invalid email or password", err.Error())
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, user.ID, got.ID)
		})
	}
}

func TestService_ResolveSession(t *testing.T) {
	repo := new(UserRepoMock)
	svc, _ := newService(repo)
	user := &models.User{ID: "user-1", Email: "punter@example.com"}

	token, err := svc.IssueSession("user-1")
	require.NoError(t, err)
	orphanToken, err := svc.IssueSession("deleted-user")
	require.NoError(t, err)

	repo.On("GetUserByID", mock.Anything, "user-1").Return(user, nil)
	repo.On("GetUserByID", mock.Anything, "deleted-user").Return(nil, apperr.ErrNotFound)

	got, err := svc.ResolveSession(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"missing", "", apperr.ErrTokenMissing},
		{"malformed", "not-a-jwt", apperr.ErrTokenInvalid},
		{"user gone", orphanToken, apperr.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ResolveSession(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
		})
	}
}
