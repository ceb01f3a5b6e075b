// Package middlewarectx содержит HTTP middleware для аутентификации и проверки прав.
//
// Authenticate проверяет токен из заголовка Authorization, загружает пользователя
// и кладёт его в контекст запроса. RequireAdmin и RequireVip проверяют флаги
// пользователя из контекста и ставятся после Authenticate.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syndicate/internal/http/response"
	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User ключ аутентифицированного пользователя в контексте.
const User Key = "user"

// Authorizer резолвер прав доступа.
type Authorizer interface {
	RequireAuthenticated(ctx context.Context, authorizationHeader string) (*models.User, error)
	RequireAdmin(user *models.User) error
	RequireVip(user *models.User) error
}

// WithUser кладёт пользователя в контекст.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, User, user)
}

// UserFromContext достаёт пользователя, положенного Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok && user != nil
}

// Authenticate возвращает 401, если токен отсутствует, просрочен или пользователь не найден.
func Authenticate(authz Authorizer, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, err := authz.RequireAuthenticated(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				log.Info("authentication failed", sl.Err(err))
				response.RenderError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin пропускает только администраторов.
func RequireAdmin(authz Authorizer, log *slog.Logger) func(http.Handler) http.Handler {
	return requireFlag(authz.RequireAdmin, "admin access required", log)
}

// RequireVip пропускает только пользователей с активной подпиской.
func RequireVip(authz Authorizer, log *slog.Logger) func(http.Handler) http.Handler {
	return requireFlag(authz.RequireVip, "VIP subscription required", log)
}

func requireFlag(check func(*models.User) error, deniedMsg string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user missing in context", slog.String("request_id", middleware.GetReqID(r.Context())))
				response.RenderError(w, r, apperr.ErrUnauthenticated)
				return
			}
			if err := check(user); err != nil {
				render.Status(r, response.StatusFor(err))
				render.JSON(w, r, response.Error(deniedMsg))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
