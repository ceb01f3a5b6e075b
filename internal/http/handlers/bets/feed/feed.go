// Package feed отдаёт публичные и VIP-ленты пиков.
// Один обработчик обслуживает пару (уровень, раздел), заданную при создании.
package feed

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
	tier    models.Tier
	section models.Section
}

type Service interface {
	ListForTier(ctx context.Context, tier models.Tier, section models.Section) ([]models.Pick, error)
}

// New создаёт обработчик ленты. Доступ к VIP-уровню проверяет middleware.
func New(log *slog.Logger, service Service, tier models.Tier, section models.Section) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tier:    tier,
		section: section,
	}
}

// ServeHTTP godoc
// @Summary Лента пиков
// @Description today: сегодняшние пики в ожидании; results: рассчитанные пики, новые первыми.
// @Tags Bets
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Pick}
// @Failure 403 {object} response.ErrorResponse "Нужна VIP-подписка"
// @Router /bets/today [get]
// @Router /bets/results [get]
// @Router /bets/vip/today [get]
// @Router /bets/vip/results [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bets.feed"

	picks, err := h.service.ListForTier(r.Context(), h.tier, h.section)
	if err != nil {
		h.log.Error("failed to list picks",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("tier", string(h.tier)),
			slog.String("section", string(h.section)),
			sl.Err(err),
		)
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(picks))
}
