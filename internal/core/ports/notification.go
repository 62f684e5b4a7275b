package ports

import "context"

// EmailSender delivers one HTML message.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// SMSSender delivers one text message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// NotificationService is the best-effort dispatcher used by the API. A false
// result covers both "disabled" and "failed".
type NotificationService interface {
	Email(ctx context.Context, to, subject, htmlBody string) bool
	SMS(ctx context.Context, to, body string) bool
	EmailEnabled() bool
	SMSEnabled() bool
}
