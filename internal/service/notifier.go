package service

import (
	"context"
	"time"

	"github.com/paymenu/grouppay/internal/domain/enduser"
	"github.com/paymenu/grouppay/internal/email"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/types"
)

// Notification is one reminder about an upcoming or open invoice
type Notification struct {
	Type       types.NotificationType
	Recipient  *enduser.EndUser
	Subject    string
	Body       string
	InvoiceID  string
	Expiration time.Time
}

// Notifier delivers reminders to end users. Delivery transports live
// behind this interface so the sweep never blocks on a provider.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// logNotifier records outgoing notifications without delivering them,
// used until a real transport is configured
type logNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{logger: log}
}

func (n *logNotifier) Send(_ context.Context, notification Notification) error {
	n.logger.Infow("notification dispatched",
		"type", notification.Type,
		"recipient", notification.Recipient.Email,
		"invoice_id", notification.InvoiceID,
		"expiration", notification.Expiration,
		"subject", notification.Subject,
	)
	return nil
}

// emailNotifier delivers email reminders through the configured provider
type emailNotifier struct {
	client *email.Client
	logger *logger.Logger
}

func (n *emailNotifier) Send(ctx context.Context, notification Notification) error {
	if notification.Type != types.NotificationTypeEmail {
		n.logger.Warnw("unsupported notification type, skipping",
			"type", notification.Type,
			"invoice_id", notification.InvoiceID,
		)
		return nil
	}

	messageID, err := n.client.Send(ctx,
		notification.Recipient.Email,
		notification.Subject,
		notification.Body,
	)
	if err != nil {
		return err
	}

	n.logger.Infow("notification email sent",
		"recipient", notification.Recipient.Email,
		"invoice_id", notification.InvoiceID,
		"message_id", messageID,
	)
	return nil
}

// NewNotifier picks the delivery transport: email when the provider is
// configured, a log-only notifier otherwise.
func NewNotifier(client *email.Client, log *logger.Logger) Notifier {
	if client.IsEnabled() {
		return &emailNotifier{client: client, logger: log}
	}
	return NewLogNotifier(log)
}
