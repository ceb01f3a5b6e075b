// Package create добавляет новый пик (только администратор).
package create

import (
	"context"
	"log/slog"
	"net/http"
	"time"

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
	CreatePick(ctx context.Context, in models.PickInput) (*models.Pick, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать пик
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPick true "Пик"
// @Success 200 {object} response.Response{data=models.Pick}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или kick_off"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /admin/bets [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bets.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPick
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.RenderValidation(w, r, err.(validator.ValidationErrors))
		return
	}

	kickOff, err := time.Parse(time.RFC3339, req.KickOff)
	if err != nil {
		log.Info("invalid kick_off", slog.String("kick_off", req.KickOff))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("kick_off must be RFC3339"))
		return
	}
	betType, err := models.ParseBetType(req.BetType)
	if err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	pick, err := h.service.CreatePick(r.Context(), models.PickInput{
		HomeTeam: req.HomeTeam,
		AwayTeam: req.AwayTeam,
		League:   req.League,
		BetType:  betType,
		Odds:     req.Odds,
		Stake:    req.Stake,
		KickOff:  kickOff,
		IsVip:    req.IsVip,
	})
	if err != nil {
		log.Error("failed to create pick", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("pick created", slog.String("id", pick.ID))
	render.JSON(w, r, response.StatusOKWithData(pick))
}
