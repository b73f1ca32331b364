package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
	"github.com/sirupsen/logrus"

	tpl "go-commerce-api/pkg/mailer/templates"
)

// Sender is the notification port: delivery is best-effort and callers must
// treat failures as non-fatal.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// TemplateSender is implemented by senders that can defer rendering to the
// consumer side. Callers that hold one should pass the template name and data
// instead of pre-rendered HTML.
type TemplateSender interface {
	Sender
	SendTemplate(ctx context.Context, to, name string, data tpl.EmailData) error
}

// Mailgun sends email directly through the Mailgun API.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, html string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, "", to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

// jsonPublisher is the slice of the RabbitMQ publisher QueueSender needs.
type jsonPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueSender enqueues email jobs on RabbitMQ for the email worker to deliver.
type QueueSender struct {
	Pub jsonPublisher
}

func NewQueueSender(pub jsonPublisher) *QueueSender {
	return &QueueSender{Pub: pub}
}

func (q *QueueSender) Send(ctx context.Context, to, subject, html string) error {
	return q.Pub.PublishJSON(ctx, EmailJob{To: to, Subject: subject, HTML: html})
}

// SendTemplate enqueues the template name and data so the worker renders the
// HTML itself. The worker picks the subject from the template name.
func (q *QueueSender) SendTemplate(ctx context.Context, to, name string, data tpl.EmailData) error {
	return q.Pub.PublishJSON(ctx, EmailJob{To: to, Template: name, Data: tpl.ToMap(data)})
}

// Disabled is a no-op sender used when email sending is turned off.
type Disabled struct {
	Logger *logrus.Logger
}

func (d *Disabled) Send(_ context.Context, to, subject, _ string) error {
	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("email sending disabled, skipping")
	}
	return nil
}

var (
	_ Sender         = (*Mailgun)(nil)
	_ TemplateSender = (*QueueSender)(nil)
	_ Sender         = (*Disabled)(nil)
)
