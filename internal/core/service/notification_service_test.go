package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
)

type sentEmail struct {
	to, subject, body string
}

type stubEmailSender struct {
	sent []sentEmail
	err  error
}

func (s *stubEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentEmail{to, subject, body})
	return nil
}

type stubSMSSender struct {
	err error
	n   int
}

func (s *stubSMSSender) SendSMS(_ context.Context, _, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.n++
	return nil
}

func TestNotificationService_Results(t *testing.T) {
	ctx := context.Background()

	disabled := NewNotificationService(nil, nil, zerolog.Nop())
	if disabled.Email(ctx, "a@example.com", "s", "b") || disabled.SMS(ctx, "+1", "b") {
		t.Fatalf("disabled channels must report false")
	}
	if disabled.EmailEnabled() || disabled.SMSEnabled() {
		t.Fatalf("expected channels disabled")
	}

	failing := NewNotificationService(&stubEmailSender{err: errors.New("smtp down")}, &stubSMSSender{err: errors.New("401")}, zerolog.Nop())
	if failing.Email(ctx, "a@example.com", "s", "b") || failing.SMS(ctx, "+1", "b") {
		t.Fatalf("failed sends must report false")
	}

	email, sms := &stubEmailSender{}, &stubSMSSender{}
	ok := NewNotificationService(email, sms, zerolog.Nop())
	if !ok.Email(ctx, "a@example.com", "s", "b") || !ok.SMS(ctx, "+1", "b") {
		t.Fatalf("successful sends must report true")
	}
	if len(email.sent) != 1 || sms.n != 1 {
		t.Fatalf("expected one email and one sms")
	}
}

func testParcel(status domain.ParcelStatus) *domain.Parcel {
	cost := 18.0
	return &domain.Parcel{
		ID:            "SWIFT-123456ABCDEF",
		Sender:        domain.Contact{Name: "Ann <admin>", Email: "ann@example.com"},
		Receiver:      domain.Contact{Name: "Bob", Email: "bob@example.com"},
		Status:        status,
		EstimatedCost: &cost,
	}
}

func TestLifecycleNotifier_Handle(t *testing.T) {
	tests := []struct {
		name    string
		event   ports.Event
		to      string
		subject string
	}{
		{
			name:    "public schedule",
			event:   ports.Event{Kind: ports.EventParcelCreated, Channel: ports.ChannelPublic, Parcel: testParcel(domain.StatusPending)},
			to:      "ann@example.com",
			subject: "Swiftify Delivery Scheduled - SWIFT-123456ABCDEF",
		},
		{
			name:  "admin order",
			event: ports.Event{Kind: ports.EventParcelCreated, Channel: ports.ChannelAdmin, Parcel: testParcel(domain.StatusPending)},
		},
		{
			name:    "delivered",
			event:   ports.Event{Kind: ports.EventParcelStatusChanged, Parcel: testParcel(domain.StatusDelivered)},
			to:      "bob@example.com",
			subject: "Package Delivered - SWIFT-123456ABCDEF",
		},
		{
			name:  "in transit",
			event: ports.Event{Kind: ports.EventParcelStatusChanged, Parcel: testParcel(domain.StatusInTransit)},
		},
		{
			name: "contact",
			event: ports.Event{Kind: ports.EventContactReceived, Contact: &domain.ContactMessage{
				Name: "Cy", Email: "cy@example.com", Message: "hello",
			}},
			to:      "cy@example.com",
			subject: "Thank you for contacting Swiftify",
		},
		{
			name:  "route update",
			event: ports.Event{Kind: ports.EventParcelRouteUpdated, Parcel: testParcel(domain.StatusPending)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &stubEmailSender{}
			n := NewLifecycleNotifier(NewNotificationService(sender, nil, zerolog.Nop()), "https://swiftify.test")

			if err := n.Handle(context.Background(), tt.event); err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			if tt.to == "" {
				if len(sender.sent) != 0 {
					t.Fatalf("expected no email, got %+v", sender.sent)
				}
				return
			}
			if len(sender.sent) != 1 {
				t.Fatalf("expected one email, got %d", len(sender.sent))
			}
			if got := sender.sent[0]; got.to != tt.to || got.subject != tt.subject {
				t.Fatalf("unexpected email: to=%s subject=%s", got.to, got.subject)
			}
		})
	}
}

func TestLifecycleNotifier_ScheduledBody(t *testing.T) {
	sender := &stubEmailSender{}
	n := NewLifecycleNotifier(NewNotificationService(sender, nil, zerolog.Nop()), "https://swiftify.test")

	_ = n.Handle(context.Background(), ports.Event{Kind: ports.EventParcelCreated, Channel: ports.ChannelPublic, Parcel: testParcel(domain.StatusPending)})
	body := sender.sent[0].body

	if !strings.Contains(body, "https://swiftify.test/track?id=SWIFT-123456ABCDEF") {
		t.Fatalf("missing track link: %s", body)
	}
	if !strings.Contains(body, "$18.00") {
		t.Fatalf("missing formatted cost: %s", body)
	}
	if strings.Contains(body, "<admin>") || !strings.Contains(body, "Ann &lt;admin&gt;") {
		t.Fatalf("sender name not escaped: %s", body)
	}
}

func TestLifecycleNotifier_FailedSendIsSwallowed(t *testing.T) {
	n := NewLifecycleNotifier(NewNotificationService(&stubEmailSender{err: errors.New("smtp down")}, nil, zerolog.Nop()), "")
	if err := n.Handle(context.Background(), ports.Event{Kind: ports.EventParcelStatusChanged, Parcel: testParcel(domain.StatusDelivered)}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
