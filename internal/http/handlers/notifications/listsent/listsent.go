// Package listsent отдаёт администратору историю рассылок.
package listsent

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syndicate/internal/http/response"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ListSent(ctx context.Context) ([]models.Notification, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История рассылок
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]models.Notification}
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Router /admin/notifications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications.listsent"

	list, err := h.service.ListSent(r.Context())
	if err != nil {
		h.log.Error("failed to list notifications",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	render.JSON(w, r, response.StatusOKWithData(list))
}
