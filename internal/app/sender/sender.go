// Package sender собирает процесс notification-sender: потребитель очереди
// рассылок поверх общего хранилища.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/syndicate/internal/config"
	"github.com/magabrotheeeer/syndicate/internal/lib/sl"
	"github.com/magabrotheeeer/syndicate/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/syndicate/internal/services/sender"
	"github.com/magabrotheeeer/syndicate/internal/storage"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	db            *storage.Storage
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.sender.New"
	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("%s: rabbitmq url is not set", op)
	}

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, err
	}

	return &App{
		conn:          conn,
		ch:            ch,
		db:            db,
		senderService: senderservice.NewSenderService(db, logger),
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.QueueBroadcast, a.senderService.HandleBroadcast)
	if err != nil {
		a.logger.Error("failed to start broadcast consumer", sl.Err(err))
		return err
	}
	a.logger.Info("consuming", slog.String("queue", rabbitmq.QueueBroadcast))

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
