// Package auth содержит регистрацию, вход и проверку сессионных токенов.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/lib/jwt"
	"github.com/magabrotheeeer/syndicate/internal/lib/password"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// Service отвечает за регистрацию, вход и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает пользователя без VIP и прав администратора и сразу выдаёт токен.
// Email сравнивается точно, с учётом регистра.
func (s *Service) Register(ctx context.Context, email, rawPassword, name string) (string, *models.User, error) {
	const op = "auth.Register"

	existing, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return "", nil, fmt.Errorf("%s: %w", op, apperr.ErrDuplicateIdentity)
	case err != nil && !errors.Is(err, apperr.ErrNotFound):
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	user := &models.User{
		ID:                 uuid.New().String(),
		Email:              email,
		Name:               name,
		PasswordHash:       hashed,
		SubscriptionStatus: models.SubscriptionNone,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.IssueSession(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// Login проверяет пароль и выдаёт токен. Неизвестный email и неверный пароль
// дают одну и ту же ошибку apperr.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidCredentials)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidCredentials)
	}

	token, err := s.IssueSession(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// IssueSession подписывает токен для userID.
func (s *Service) IssueSession(userID string) (string, error) {
	return s.jwtMaker.GenerateToken(userID)
}

// ResolveSession проверяет токен и загружает пользователя.
// Все ошибки оборачивают apperr.ErrUnauthenticated.
func (s *Service) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.ResolveSession"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%s: user not found: %w", op, apperr.ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Profile возвращает актуальное состояние пользователя.
func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	const op = "auth.Profile"
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
