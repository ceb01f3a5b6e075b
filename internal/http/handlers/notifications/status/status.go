// Package status сообщает, подписан ли пользователь на уведомления.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syndicate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/syndicate/internal/http/response"
	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

// Result тело ответа.
type Result struct {
	Subscribed bool `json:"subscribed"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	IsSubscribed(ctx context.Context, user *models.User) (bool, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статус подписки на уведомления
// @Tags Notifications
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Result}
// @Router /notifications/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.RenderError(w, r, apperr.ErrUnauthenticated)
		return
	}
	subscribed, err := h.service.IsSubscribed(r.Context(), user)
	if err != nil {
		log.Error("failed to read subscription", slog.String("user_id", user.ID), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(Result{Subscribed: subscribed}))
}
