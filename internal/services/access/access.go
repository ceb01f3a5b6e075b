// Package access выводит возможности пользователя (аутентифицирован, VIP,
// администратор) из токена и сохранённого состояния.
package access

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

// SessionResolver проверяет токен и загружает пользователя.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

// AdminStore сохраняет флаг администратора.
type AdminStore interface {
	SetAdmin(ctx context.Context, userID string) error
}

// Service резолвер прав доступа.
type Service struct {
	sessions      SessionResolver
	admins        AdminStore
	elevationCode string
}

// New создаёт резолвер. Пустой elevationCode отключает повышение до администратора.
func New(sessions SessionResolver, admins AdminStore, elevationCode string) *Service {
	return &Service{
		sessions:      sessions,
		admins:        admins,
		elevationCode: elevationCode,
	}
}

// RequireAuthenticated разбирает заголовок Authorization вида "Bearer <token>".
func (s *Service) RequireAuthenticated(ctx context.Context, authorizationHeader string) (*models.User, error) {
	const op = "access.RequireAuthenticated"
	token, ok := bearerToken(authorizationHeader)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrTokenMissing)
	}
	user, err := s.sessions.ResolveSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// RequireAdmin проверяет флаг администратора.
func (s *Service) RequireAdmin(user *models.User) error {
	if user == nil || !user.IsAdmin {
		return fmt.Errorf("access.RequireAdmin: admin access required: %w", apperr.ErrForbidden)
	}
	return nil
}

// RequireVip проверяет флаг VIP. Администратор не получает VIP автоматически.
func (s *Service) RequireVip(user *models.User) error {
	if user == nil || !user.IsVip {
		return fmt.Errorf("access.RequireVip: VIP subscription required: %w", apperr.ErrForbidden)
	}
	return nil
}

// ElevateToAdmin делает пользователя администратором, если code совпал с общим кодом процесса.
// Кто знает код, может повысить себя навсегда.
func (s *Service) ElevateToAdmin(ctx context.Context, user *models.User, code string) error {
	const op = "access.ElevateToAdmin"
	if user == nil {
		return fmt.Errorf("%s: %w", op, apperr.ErrUnauthenticated)
	}
	if s.elevationCode == "" ||
		subtle.ConstantTimeCompare([]byte(code), []byte(s.elevationCode)) != 1 {
		return fmt.Errorf("%s: invalid admin code: %w", op, apperr.ErrForbidden)
	}
	if err := s.admins.SetAdmin(ctx, user.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user.IsAdmin = true
	return nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
