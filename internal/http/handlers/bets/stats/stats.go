// Package stats отдаёт сводную статистику по рассчитанным пикам.
package stats

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
	ComputeStats(ctx context.Context) (models.Stats, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статистика
// @Description Процент выигранных среди рассчитанных пиков обоих уровней.
// @Tags Bets
// @Produce  json
// @Success 200 {object} response.Response{data=models.Stats}
// @Router /stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bets.stats"

	stats, err := h.service.ComputeStats(r.Context())
	if err != nil {
		h.log.Error("failed to compute stats",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(stats))
}
