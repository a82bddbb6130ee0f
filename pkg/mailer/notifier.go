// Package mailer delivers templated transactional email.
package mailer

import (
	"context"
	"crowdfunding/pkg/mailer/templates"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"
)

// Notifier sends the named template to recipient.
type Notifier interface {
	Send(ctx context.Context, template, recipient string, data map[string]any) error
}

// EmailJob is the JSON payload put on the RabbitMQ queue.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data,omitempty"`
}

// LogNotifier renders and logs emails instead of sending them. Used in development.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *LogNotifier) Send(ctx context.Context, template, recipient string, data map[string]any) error {
	subject, text, _, err := templates.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", template, err)
	}
	n.log.Info("email",
		zap.String("to", recipient),
		zap.String("subject", subject),
		zap.Any("action_url", data["ActionURL"]),
	)
	n.log.Debug("email body", zap.String("text", text))
	return nil
}

// Mailgun sends rendered email through the Mailgun API.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// SendRaw sends an email via Mailgun. html is optional.
func (m *Mailgun) SendRaw(ctx context.Context, to, subject, text, html string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

func (m *Mailgun) Send(ctx context.Context, template, recipient string, data map[string]any) error {
	subject, text, html, err := templates.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", template, err)
	}
	return m.SendRaw(ctx, recipient, subject, text, html)
}

// Publisher puts a JSON message on a queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier hands email to the background mail worker.
type QueueNotifier struct {
	pub Publisher
}

func NewQueueNotifier(pub Publisher) *QueueNotifier {
	return &QueueNotifier{pub: pub}
}

func (n *QueueNotifier) Send(ctx context.Context, template, recipient string, data map[string]any) error {
	// fail fast on unknown templates instead of poisoning the queue
	if _, _, _, err := templates.Render(template, data); err != nil {
		return fmt.Errorf("render %s: %w", template, err)
	}
	return n.pub.PublishJSON(ctx, EmailJob{To: recipient, Template: template, Data: data})
}
