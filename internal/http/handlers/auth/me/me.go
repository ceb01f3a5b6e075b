// Package me отдаёт профиль текущего пользователя.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syndicate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/syndicate/internal/http/response"
	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
)

// Handler отдаёт пользователя, положенного в контекст middleware аутентификации.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.User}
// @Failure 401 {object} response.ErrorResponse "Нет или просрочен токен"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		h.log.Error("user missing in context", slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		response.RenderError(w, r, apperr.ErrUnauthenticated)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(user))
}
