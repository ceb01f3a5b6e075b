// Package create открывает checkout-сессию для оформления VIP-подписки.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/syndicate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/syndicate/internal/http/response"
	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	StartCheckout(ctx context.Context, user *models.User, originURL string) (*models.CheckoutSession, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать checkout-сессию
// @Description Возвращает ссылку на оплату. Доступ выдаётся только после подтверждения оплаты.
// @Tags Checkout
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyCheckout true "Адрес фронтенда для возврата"
// @Success 200 {object} response.Response{data=models.CheckoutSession}
// @Failure 500 {object} response.ErrorResponse "Оплата не настроена"
// @Failure 502 {object} response.ErrorResponse "Провайдер недоступен"
// @Router /checkout/create [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.RenderError(w, r, apperr.ErrUnauthenticated)
		return
	}

	var req models.DummyCheckout
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

	session, err := h.service.StartCheckout(r.Context(), user, req.OriginURL)
	if err != nil {
		log.Error("failed to start checkout", slog.String("user_id", user.ID), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("checkout started", slog.String("user_id", user.ID), slog.String("session_id", session.SessionID))
	render.JSON(w, r, response.StatusOKWithData(session))
}
