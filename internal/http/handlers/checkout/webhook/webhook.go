// Package webhook принимает события платёжного провайдера.
package webhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/services/subscription"
)

// maxBodyBytes предел тела события, как рекомендует Stripe.
const maxBodyBytes = 65536

// SignatureHeader заголовок с подписью события.
const SignatureHeader = "Stripe-Signature"

type Service interface {
	HandleWebhookEvent(ctx context.Context, body []byte, signature string) subscription.WebhookResult
}

type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Webhook платёжного провайдера
// @Description Всегда отвечает 200. Результат обработки в поле status.
// @Tags Checkout
// @Accept  json
// @Produce  json
// @Param Stripe-Signature header string true "Подпись события"
// @Success 200 {object} subscription.WebhookResult
// @Router /webhook/stripe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		render.JSON(w, r, subscription.WebhookResult{Status: subscription.WebhookError, Message: "failed to read body"})
		return
	}

	result := h.service.HandleWebhookEvent(r.Context(), body, r.Header.Get(SignatureHeader))
	render.JSON(w, r, result)
}
