// Package verify повышает текущего пользователя до администратора по общему коду.
package verify

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

// Request тело запроса с кодом администратора.
type Request struct {
	Code string `json:"code" validate:"required"`
}

// Service повышение прав.
type Service interface {
	ElevateToAdmin(ctx context.Context, user *models.User, code string) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Получить права администратора
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Код администратора"
// @Success 200 {object} response.Response{data=response.Success}
// @Failure 403 {object} response.ErrorResponse "Неверный код"
// @Router /admin/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.RenderError(w, r, apperr.ErrUnauthenticated)
		return
	}

	var req Request
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

	if err := h.service.ElevateToAdmin(r.Context(), user, req.Code); err != nil {
		log.Warn("admin elevation refused", slog.String("user_id", user.ID), sl.Err(err))
		if response.StatusFor(err) == http.StatusForbidden {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("invalid admin code"))
			return
		}
		response.RenderError(w, r, err)
		return
	}

	log.Info("admin access granted", slog.String("user_id", user.ID))
	render.JSON(w, r, response.StatusOKWithData(response.Success{Success: true, Message: "Admin access granted"}))
}
