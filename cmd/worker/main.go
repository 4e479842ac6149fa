package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/gigboard-dev/gigboard/internal/config"
	"github.com/gigboard-dev/gigboard/internal/mailer"
	"github.com/gigboard-dev/gigboard/internal/queue"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * config
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(dialCtx); err != nil {
		logger.Error("failed to connect to mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := queue.Declare(ch, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Error("failed to declare queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",    // let the broker name the consumer
		false, // ack by hand
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to consume queue", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Warn("delivery channel closed")
					return
				}
				deliver(ctx, logger, client, cfg.Email.SMTP.Username, msg)
			}
		}
	}()

	logger.Info("waiting for events (CTRL+C to quit)", "queue", q.Name)
	<-sigChan

	logger.Info("shutting down worker")
	stop()
	wg.Wait()
	logger.Info("worker stopped")
}

// deliver sends one event email. Malformed events are dropped, failed sends requeued.
func deliver(ctx context.Context, logger *slog.Logger, client *mail.Client, from string, msg amqp.Delivery) {
	email, err := mailer.Render(msg.Body)
	if err != nil {
		logger.Error("dropping event", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	m, err := email.Message(from)
	if err != nil {
		logger.Error("failed to build email", slog.String("to", email.To), slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		logger.Error("failed to send email", slog.String("to", email.To), slog.String("error", err.Error()))
		_ = msg.Nack(false, true)
		return
	}

	logger.Info("email sent", slog.String("to", email.To), slog.String("subject", email.Subject))
	_ = msg.Ack(false)
}
