package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends catalog notifications from a fixed sender address.
type Mailgun struct {
	Sender  string
	Timeout time.Duration
	client  *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Sender: sender, Timeout: 10 * time.Second, client: mg.NewMailgun(domain, apiKey)}
}

// Deliver renders job and sends it. Render errors are permanent; send errors
// may succeed on retry.
func (m *Mailgun) Deliver(ctx context.Context, job EmailJob) (id string, permanent bool, err error) {
	subject, text, html, err := job.Render()
	if err != nil {
		return "", true, err
	}
	id, err = m.Send(ctx, job.To, subject, text, html)
	return id, false, err
}

// Send sends one message; html may be empty.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) (string, error) {
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, id, err := m.client.Send(c, msg)
	return id, err
}
