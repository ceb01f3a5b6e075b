// Package syndicate собирает HTTP-приложение: хранилище, кэш, внешние
// клиенты, сервисы и маршруты.
package syndicate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	// Регистрация swagger-документа для /docs.
	_ "github.com/magabrotheeeer/syndicate/docs"

	"github.com/magabrotheeeer/syndicate/internal/cache"
	"github.com/magabrotheeeer/syndicate/internal/config"
	"github.com/magabrotheeeer/syndicate/internal/lib/jwt"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/metrics"
	"github.com/magabrotheeeer/syndicate/internal/migrations"
	"github.com/magabrotheeeer/syndicate/internal/paymentprovider"
	"github.com/magabrotheeeer/syndicate/internal/rabbitmq"
	"github.com/magabrotheeeer/syndicate/internal/services/access"
	"github.com/magabrotheeeer/syndicate/internal/services/auth"
	"github.com/magabrotheeeer/syndicate/internal/services/feed"
	"github.com/magabrotheeeer/syndicate/internal/services/notification"
	"github.com/magabrotheeeer/syndicate/internal/services/picks"
	"github.com/magabrotheeeer/syndicate/internal/services/subscription"
	"github.com/magabrotheeeer/syndicate/internal/storage"
	"github.com/magabrotheeeer/syndicate/internal/telegram"
)

type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *storage.Storage
	cache     *cache.Cache
	amqpConn  *amqp.Connection
	publisher *rabbitmq.Publisher
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	metrics.InitMetrics()

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{logger: logger, db: db}

	// Без Redis выборки читаются напрямую из базы.
	var picksCache picks.Cache
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", sl.Err(err))
	} else {
		app.cache = cacheRedis
		picksCache = cacheRedis
	}

	// Без брокера рассылки только сохраняются в журнал.
	var publisher notification.Publisher
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			logger.Warn("rabbitmq unavailable, broadcasts will not be published", sl.Err(err))
		} else {
			ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
			if err != nil {
				_ = conn.Close()
				logger.Warn("failed to setup rabbitmq channel", sl.Err(err))
			} else {
				app.amqpConn = conn
				app.publisher = rabbitmq.NewPublisher(ch)
				publisher = app.publisher
			}
		}
	}

	var provider subscription.PaymentProvider
	if cfg.PaymentConfigured() {
		provider = paymentprovider.NewClient(cfg.StripeAPIKey, cfg.WebhookSecret, cfg.Payment.Timeout, "")
	} else {
		logger.Warn("payment provider is not configured")
	}

	var channel feed.ChannelClient
	if cfg.TelegramConfigured() {
		channel = telegram.New(cfg.BotToken, cfg.FetchLimit, cfg.Telegram.Timeout, "")
	} else {
		logger.Warn("telegram bot is not configured")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := auth.New(db, jwtMaker)
	picksService := picks.New(logger, db, picksCache)

	services := Services{
		Auth:         authService,
		Access:       access.New(authService, db, cfg.ElevationCode),
		Picks:        picksService,
		Subscription: subscription.New(logger, provider, db, cfg.AmountMinor, cfg.Currency),
		Feed:         feed.New(logger, channel, db, picksService),
		Notification: notification.New(logger, db, publisher),
		DB:           db,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services, cfg.AllowedOrigins)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
