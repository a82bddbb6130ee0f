// Command mailworker drains the email queue and delivers each job through Mailgun.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"crowdfunding/pkg/mailer"
	"crowdfunding/pkg/mailer/templates"
	"crowdfunding/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// sender is the part of the Mailgun client the worker needs.
type sender interface {
	SendRaw(ctx context.Context, to, subject, text, html string) error
}

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name+"-mailworker", config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	conn, ch, err := mailer.DialQueue(config.RabbitMQ.URL, config.RabbitMQ.EmailQueue)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer conn.Close()
	defer ch.Close()

	// one unacked job at a time per worker
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Fatal("Failed to set QoS", zap.Error(err))
	}

	deliveries, err := ch.Consume(config.RabbitMQ.EmailQueue, "mailworker", false, false, false, false, nil)
	if err != nil {
		logger.Fatal("Failed to start consumer", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mg := mailer.NewMailgun(config.Mail.MailgunDomain, config.Mail.MailgunAPIKey, config.Mail.Sender)
	logger.Info("Mail worker started", zap.String("queue", config.RabbitMQ.EmailQueue))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Mail worker stopped")
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("Delivery channel closed")
				return
			}
			handleDelivery(ctx, d, mg, logger)
		}
	}
}

func handleDelivery(ctx context.Context, d amqp.Delivery, mg sender, logger *zap.Logger) {
	requeue, err := deliver(ctx, d.Body, mg)
	if err == nil {
		_ = d.Ack(false)
		return
	}

	logger.Error("Failed to deliver email", zap.Error(err), zap.Bool("requeue", requeue && !d.Redelivered))
	// a job is retried once; bad payloads are dropped immediately
	_ = d.Nack(false, requeue && !d.Redelivered)
}

// deliver sends one queued job. requeue reports whether a retry could succeed.
func deliver(ctx context.Context, body []byte, mg sender) (requeue bool, err error) {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return false, err
	}

	subject, text, html, err := templates.Render(job.Template, job.Data)
	if err != nil {
		return false, err
	}

	if err := mg.SendRaw(ctx, job.To, subject, text, html); err != nil {
		return true, err
	}
	return false, nil
}
