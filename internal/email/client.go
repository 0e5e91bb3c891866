package email

import (
	"context"

	"github.com/paymenu/grouppay/internal/config"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/resend/resend-go/v2"
)

// Client wraps the transactional email provider. A disabled client is
// still a valid value, Send just refuses to deliver.
type Client struct {
	client      *resend.Client
	enabled     bool
	fromAddress string
	replyTo     string
}

// NewClient builds the email client from configuration
func NewClient(cfg *config.Configuration) *Client {
	if !cfg.Email.Enabled || cfg.Email.APIKey == "" {
		return &Client{enabled: false}
	}

	return &Client{
		client:      resend.NewClient(cfg.Email.APIKey),
		enabled:     true,
		fromAddress: cfg.Email.FromAddress,
		replyTo:     cfg.Email.ReplyTo,
	}
}

// IsEnabled returns whether the client can deliver email
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// Send delivers one email and returns the provider message id
func (c *Client) Send(ctx context.Context, to, subject, body string) (string, error) {
	if !c.enabled {
		return "", ierr.NewError("email client is disabled").
			WithHint("Configure email delivery before sending").
			Mark(ierr.ErrSystem)
	}

	params := &resend.SendEmailRequest{
		From:    c.fromAddress,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}
	if c.replyTo != "" {
		params.ReplyTo = c.replyTo
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to send email").
			WithReportableDetails(map[string]any{"to": to}).
			Mark(ierr.ErrSystem)
	}

	return sent.Id, nil
}
