// Package importmanual импортирует один вставленный вручную пост.
package importmanual

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syndicate/internal/http/response"
	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

// Request тело запроса. Текст можно передать и в query-параметре text.
type Request struct {
	Text string `json:"text"`
}

// Result тело ответа.
type Result struct {
	Success bool         `json:"success"`
	Bet     *models.Pick `json:"bet"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ImportSingle(ctx context.Context, text string) (*models.Pick, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Импорт одного поста
// @Tags Telegram
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param text query string false "Текст поста"
// @Param request body Request false "Текст поста"
// @Success 200 {object} response.Response{data=Result}
// @Failure 400 {object} response.ErrorResponse "Пост не разобран"
// @Router /admin/telegram/import-manual [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.telegram.importmanual"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	text := r.URL.Query().Get("text")
	if text == "" {
		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}
		text = req.Text
	}

	pick, err := h.service.ImportSingle(r.Context(), text)
	if err != nil {
		if errors.Is(err, apperr.ErrUnparseable) {
			log.Info("message not parsed", sl.Err(err))
		} else {
			log.Error("manual import failed", sl.Err(err))
		}
		response.RenderError(w, r, err)
		return
	}

	log.Info("message imported", slog.String("id", pick.ID))
	render.JSON(w, r, response.StatusOKWithData(Result{Success: true, Bet: pick}))
}
