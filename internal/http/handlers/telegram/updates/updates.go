// Package updates показывает администратору последние посты канала
// вместе с результатом их разбора.
package updates

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syndicate/internal/http/response"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/services/feed"
)

// Result тело ответа.
type Result struct {
	Messages []feed.Preview `json:"messages"`
	Count    int            `json:"count"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	PreviewUpdates(ctx context.Context) ([]feed.Preview, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Последние посты канала
// @Tags Telegram
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Result}
// @Failure 500 {object} response.ErrorResponse "Бот не настроен"
// @Failure 502 {object} response.ErrorResponse "Telegram недоступен"
// @Router /admin/telegram/updates [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.telegram.updates"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	previews, err := h.service.PreviewUpdates(r.Context())
	if err != nil {
		log.Error("failed to fetch channel updates", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	if previews == nil {
		previews = []feed.Preview{}
	}
	render.JSON(w, r, response.StatusOKWithData(Result{Messages: previews, Count: len(previews)}))
}
