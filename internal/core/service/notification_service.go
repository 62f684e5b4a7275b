package service

import (
	"context"
	"fmt"
	"html"

	"github.com/rs/zerolog"

	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
	"github.com/swiftify/logistics-api/internal/pkg/metrics"
)

const (
	channelEmail = "email"
	channelSMS   = "sms"
)

// NotificationService sends best-effort email and SMS. A nil sender means the
// channel is disabled.
type NotificationService struct {
	email  ports.EmailSender
	sms    ports.SMSSender
	logger zerolog.Logger
}

func NewNotificationService(email ports.EmailSender, sms ports.SMSSender, logger zerolog.Logger) *NotificationService {
	return &NotificationService{email: email, sms: sms, logger: logger}
}

func (s *NotificationService) EmailEnabled() bool { return s.email != nil }

func (s *NotificationService) SMSEnabled() bool { return s.sms != nil }

func (s *NotificationService) Email(ctx context.Context, to, subject, htmlBody string) bool {
	if s.email == nil {
		metrics.NotificationsTotal.WithLabelValues(channelEmail, "disabled").Inc()
		s.logger.Debug().Str("to", to).Msg("email notifications disabled")
		return false
	}
	if err := s.email.SendEmail(ctx, to, subject, htmlBody); err != nil {
		metrics.NotificationsTotal.WithLabelValues(channelEmail, "failed").Inc()
		s.logger.Warn().Err(err).Str("to", to).Str("subject", subject).Msg("email send failed")
		return false
	}
	metrics.NotificationsTotal.WithLabelValues(channelEmail, "sent").Inc()
	s.logger.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return true
}

func (s *NotificationService) SMS(ctx context.Context, to, body string) bool {
	if s.sms == nil {
		metrics.NotificationsTotal.WithLabelValues(channelSMS, "disabled").Inc()
		s.logger.Debug().Str("to", to).Msg("sms notifications disabled")
		return false
	}
	if err := s.sms.SendSMS(ctx, to, body); err != nil {
		metrics.NotificationsTotal.WithLabelValues(channelSMS, "failed").Inc()
		s.logger.Warn().Err(err).Str("to", to).Msg("sms send failed")
		return false
	}
	metrics.NotificationsTotal.WithLabelValues(channelSMS, "sent").Inc()
	s.logger.Info().Str("to", to).Msg("sms sent")
	return true
}

// LifecycleNotifier turns parcel and contact events into confirmation emails.
type LifecycleNotifier struct {
	notifier ports.NotificationService
	baseURL  string
}

func NewLifecycleNotifier(notifier ports.NotificationService, publicBaseURL string) *LifecycleNotifier {
	return &LifecycleNotifier{notifier: notifier, baseURL: publicBaseURL}
}

// Handle never fails: delivery problems are recorded by the notification service.
func (n *LifecycleNotifier) Handle(ctx context.Context, event ports.Event) error {
	if !n.notifier.EmailEnabled() {
		return nil
	}

	switch event.Kind {
	case ports.EventParcelCreated:
		if event.Channel != ports.ChannelPublic || event.Parcel == nil || event.Parcel.Sender.Email == "" {
			return nil
		}
		n.notifier.Email(ctx, event.Parcel.Sender.Email,
			"Swiftify Delivery Scheduled - "+event.Parcel.ID,
			n.scheduledBody(event.Parcel))

	case ports.EventParcelStatusChanged:
		p := event.Parcel
		if p == nil || p.Status != domain.StatusDelivered || p.Receiver.Email == "" {
			return nil
		}
		n.notifier.Email(ctx, p.Receiver.Email, "Package Delivered - "+p.ID, deliveredBody(p))

	case ports.EventContactReceived:
		c := event.Contact
		if c == nil || c.Email == "" {
			return nil
		}
		n.notifier.Email(ctx, c.Email, "Thank you for contacting Swiftify", contactBody(c))
	}
	return nil
}

func (n *LifecycleNotifier) trackURL(id string) string {
	return fmt.Sprintf("%s/track?id=%s", n.baseURL, id)
}

func (n *LifecycleNotifier) scheduledBody(p *domain.Parcel) string {
	cost := 0.0
	if p.EstimatedCost != nil {
		cost = *p.EstimatedCost
	}
	return fmt.Sprintf(`<html><body>
<h2>Your delivery has been scheduled</h2>
<p>Hello %s,</p>
<p>Your package to %s has been scheduled for pickup.</p>
<p><strong>Tracking ID:</strong> %s</p>
<p><strong>Estimated cost:</strong> $%.2f</p>
<p><strong>Estimated delivery:</strong> %s</p>
<p><a href="%s">Track your package</a></p>
<p>Thank you for choosing Swiftify.</p>
</body></html>`,
		html.EscapeString(p.Sender.Name),
		html.EscapeString(p.Receiver.Name),
		html.EscapeString(p.ID),
		cost,
		p.ETA.Format("January 2, 2006"),
		html.EscapeString(n.trackURL(p.ID)),
	)
}

func deliveredBody(p *domain.Parcel) string {
	return fmt.Sprintf(`<html><body>
<h2>Your package has been delivered</h2>
<p>Hello %s,</p>
<p>Package <strong>%s</strong> from %s has been delivered.</p>
<p>Thank you for choosing Swiftify.</p>
</body></html>`,
		html.EscapeString(p.Receiver.Name),
		html.EscapeString(p.ID),
		html.EscapeString(p.Sender.Name),
	)
}

func contactBody(c *domain.ContactMessage) string {
	return fmt.Sprintf(`<html><body>
<h2>We received your message</h2>
<p>Hello %s,</p>
<p>Thank you for reaching out. Our team will get back to you shortly.</p>
<blockquote>%s</blockquote>
<p>The Swiftify Team</p>
</body></html>`,
		html.EscapeString(c.Name),
		html.EscapeString(c.Message),
	)
}
