// Package update записывает результат пика (только администратор).
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/syndicate/internal/http/response"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	UpdatePickOutcome(ctx context.Context, id string, status models.PickStatus, homeScore, awayScore *int) (*models.Pick, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить результат пика
// @Description Статус перезаписывается без проверки перехода. Счёт меняется, только если передан.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID пика"
// @Param request body models.DummyOutcome true "Результат"
// @Success 200 {object} response.Response{data=models.Pick}
// @Failure 404 {object} response.ErrorResponse "Пик не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /admin/bets/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bets.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.DummyOutcome
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.RenderValidation(w, r, err.(validator.ValidationErrors))
		return
	}
	status, err := models.ParsePickStatus(req.Status)
	if err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	pick, err := h.service.UpdatePickOutcome(r.Context(), id, status, req.HomeScore, req.AwayScore)
	if err != nil {
		log.Error("failed to update pick", slog.String("id", id), sl.Err(err))
		if response.StatusFor(err) == http.StatusNotFound {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("bet not found"))
			return
		}
		response.RenderError(w, r, err)
		return
	}

	log.Info("pick outcome updated", slog.String("id", id), slog.String("status", string(status)))
	render.JSON(w, r, response.StatusOKWithData(pick))
}
