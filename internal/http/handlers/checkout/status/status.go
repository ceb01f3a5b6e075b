// Package status опрашивает состояние checkout-сессии.
// Оплаченная сессия выдаёт VIP текущему пользователю.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syndicate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/syndicate/internal/http/response"
	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	PollStatus(ctx context.Context, sessionID string, user *models.User) (*models.CheckoutStatus, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус checkout-сессии
// @Tags Checkout
// @Produce  json
// @Security BearerAuth
// @Param session_id path string true "ID сессии"
// @Success 200 {object} response.Response{data=models.CheckoutStatus}
// @Failure 403 {object} response.ErrorResponse "Сессия другого пользователя"
// @Failure 502 {object} response.ErrorResponse "Провайдер недоступен"
// @Router /checkout/status/{session_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.RenderError(w, r, apperr.ErrUnauthenticated)
		return
	}
	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("session_id is required"))
		return
	}

	st, err := h.service.PollStatus(r.Context(), sessionID, user)
	if err != nil {
		log.Error("failed to poll checkout", slog.String("session_id", sessionID), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(st))
}
