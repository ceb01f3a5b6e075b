package syndicate

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/syndicate/internal/http/handlers/admin/verify"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/bets/create"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/bets/feed"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/bets/listall"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/bets/remove"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/bets/stats"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/bets/update"
	checkoutcreate "github.com/magabrotheeeer/syndicate/internal/http/handlers/checkout/create"
	checkoutstatus "github.com/magabrotheeeer/syndicate/internal/http/handlers/checkout/status"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/checkout/webhook"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/health"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/notifications/latest"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/notifications/listsent"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/notifications/send"
	notifstatus "github.com/magabrotheeeer/syndicate/internal/http/handlers/notifications/status"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/notifications/subscribe"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/notifications/subscribers"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/notifications/unsubscribe"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/root"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/telegram/importbatch"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/telegram/importmanual"
	"github.com/magabrotheeeer/syndicate/internal/http/handlers/telegram/updates"
	"github.com/magabrotheeeer/syndicate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/syndicate/internal/models"
	"github.com/magabrotheeeer/syndicate/internal/services/access"
	"github.com/magabrotheeeer/syndicate/internal/services/auth"
	feedservice "github.com/magabrotheeeer/syndicate/internal/services/feed"
	"github.com/magabrotheeeer/syndicate/internal/services/notification"
	"github.com/magabrotheeeer/syndicate/internal/services/picks"
	"github.com/magabrotheeeer/syndicate/internal/services/subscription"
)

// Лимит запросов к /auth на процесс.
const (
	authRPS   = 5
	authBurst = 10
)

// Services зависимости маршрутов.
type Services struct {
	Auth         *auth.Service
	Access       *access.Service
	Picks        *picks.Service
	Subscription *subscription.Service
	Feed         *feedservice.Service
	Notification *notification.Service
	DB           health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, allowedOrigins []string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics,
		cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	authn := middlewarectx.Authenticate(svc.Access, logger)
	adminOnly := middlewarectx.RequireAdmin(svc.Access, logger)
	vipOnly := middlewarectx.RequireVip(svc.Access, logger)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/", root.Index)
		r.Get("/stats", stats.New(logger, svc.Picks).ServeHTTP)
		r.Get("/bets/today", feed.New(logger, svc.Picks, models.TierFree, models.SectionUpcoming).ServeHTTP)
		r.Get("/bets/results", feed.New(logger, svc.Picks, models.TierFree, models.SectionResults).ServeHTTP)
		r.Get("/notifications/latest", latest.New(logger, svc.Notification).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, authRPS, authBurst))
			r.Post("/auth/register", register.New(logger, svc.Auth).ServeHTTP)
			r.Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)
		})

		// Webhook провайдера проверяется подписью, а не токеном
		r.Post("/webhook/stripe", webhook.New(logger, svc.Subscription).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/auth/me", me.New(logger).ServeHTTP)
			r.Post("/admin/verify", verify.New(logger, svc.Access).ServeHTTP)

			r.Post("/checkout/create", checkoutcreate.New(logger, svc.Subscription).ServeHTTP)
			r.Get("/checkout/status/{session_id}", checkoutstatus.New(logger, svc.Subscription).ServeHTTP)

			r.Post("/notifications/subscribe", subscribe.New(logger, svc.Notification).ServeHTTP)
			r.Delete("/notifications/unsubscribe", unsubscribe.New(logger, svc.Notification).ServeHTTP)
			r.Get("/notifications/status", notifstatus.New(logger, svc.Notification).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(vipOnly)
				r.Get("/bets/vip/today", feed.New(logger, svc.Picks, models.TierVip, models.SectionUpcoming).ServeHTTP)
				r.Get("/bets/vip/results", feed.New(logger, svc.Picks, models.TierVip, models.SectionResults).ServeHTTP)
			})

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/admin/bets", create.New(logger, svc.Picks).ServeHTTP)
				r.Get("/admin/bets", listall.New(logger, svc.Picks).ServeHTTP)
				r.Put("/admin/bets/{id}", update.New(logger, svc.Picks).ServeHTTP)
				r.Delete("/admin/bets/{id}", remove.New(logger, svc.Picks).ServeHTTP)

				r.Post("/admin/notifications/send", send.New(logger, svc.Notification).ServeHTTP)
				r.Get("/admin/notifications", listsent.New(logger, svc.Notification).ServeHTTP)
				r.Get("/admin/notifications/subscribers", subscribers.New(logger, svc.Notification).ServeHTTP)

				r.Get("/admin/telegram/updates", updates.New(logger, svc.Feed).ServeHTTP)
				r.Post("/admin/telegram/import", importbatch.New(logger, svc.Feed).ServeHTTP)
				r.Post("/admin/telegram/import-manual", importmanual.New(logger, svc.Feed).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", health.New(logger, svc.DB).ServeHTTP)
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
