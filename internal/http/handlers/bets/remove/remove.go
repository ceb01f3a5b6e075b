// Package remove удаляет пик (только администратор).
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syndicate/internal/http/response"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	DeletePick(ctx context.Context, id string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить пик
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID пика"
// @Success 200 {object} response.Response{data=response.Success}
// @Failure 404 {object} response.ErrorResponse "Пик не найден"
// @Router /admin/bets/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bets.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.service.DeletePick(r.Context(), id); err != nil {
		log.Error("failed to delete pick", slog.String("id", id), sl.Err(err))
		if response.StatusFor(err) == http.StatusNotFound {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("bet not found"))
			return
		}
		response.RenderError(w, r, err)
		return
	}

	log.Info("pick deleted", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(response.Success{Success: true}))
}
