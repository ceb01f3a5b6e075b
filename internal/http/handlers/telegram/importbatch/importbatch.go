// Package importbatch импортирует результаты из последних постов канала.
package importbatch

import (
	"context"
	"fmt"
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
	Success  bool   `json:"success"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Message  string `json:"message"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ImportBatch(ctx context.Context) (feed.ImportResult, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Импорт результатов из канала
// @Description Уже импортированные посты пропускаются.
// @Tags Telegram
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Result}
// @Failure 502 {object} response.ErrorResponse "Telegram недоступен"
// @Router /admin/telegram/import [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.telegram.importbatch"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ImportBatch(r.Context())
	if err != nil {
		log.Error("import failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("channel imported", slog.Int("imported", res.Imported), slog.Int("skipped", res.Skipped))
	render.JSON(w, r, response.StatusOKWithData(Result{
		Success:  true,
		Imported: res.Imported,
		Skipped:  res.Skipped,
		Message:  fmt.Sprintf("Imported %d results, skipped %d duplicates", res.Imported, res.Skipped),
	}))
}
