// Package send рассылает уведомление от имени администратора.
package send

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
	Send(ctx context.Context, admin *models.User, title, body string, nt models.NotificationType) (*models.Notification, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправить уведомление
// @Description Сохраняет запись с числом получателей и публикует событие рассылки.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyNotification true "Уведомление"
// @Success 200 {object} response.Response{data=models.Notification}
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /admin/notifications/send [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications.send"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	admin, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.RenderError(w, r, apperr.ErrUnauthenticated)
		return
	}

	var req models.DummyNotification
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
	nt, err := models.ParseNotificationType(req.Type)
	if err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	n, err := h.service.Send(r.Context(), admin, req.Title, req.Body, nt)
	if err != nil {
		log.Error("failed to send notification", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("notification sent", slog.String("id", n.ID), slog.Int("recipients", n.Recipients))
	render.JSON(w, r, response.StatusOKWithData(n))
}
