// Package subscribers отдаёт число подписчиков на уведомления.
package subscribers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syndicate/internal/http/response"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
)

// Result тело ответа.
type Result struct {
	SubscriberCount int `json:"subscriber_count"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	SubscriberCount(ctx context.Context) (int, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Число подписчиков
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Result}
// @Router /admin/notifications/subscribers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications.subscribers"

	n, err := h.service.SubscriberCount(r.Context())
	if err != nil {
		h.log.Error("failed to count subscribers",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(Result{SubscriberCount: n}))
}
