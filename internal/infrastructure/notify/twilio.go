package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	twapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	twilioTimeout     = 10 * time.Second
	twilioMaxAttempts = 3
)

type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
	// Edge optionally pins requests to a Twilio edge location.
	Edge string
}

// messageCreator is the slice of the Twilio v2010 API the sender uses.
type messageCreator interface {
	CreateMessage(params *twapi.CreateMessageParams) (*twapi.ApiV2010Message, error)
}

// TwilioSender sends text messages through the Twilio SDK.
type TwilioSender struct {
	from     string
	messages messageCreator
	backoff  time.Duration
}

func NewTwilioSender(cfg TwilioConfig) *TwilioSender {
	rc := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	rc.SetTimeout(twilioTimeout)
	if cfg.Edge != "" {
		rc.SetEdge(cfg.Edge)
	}
	return newTwilioSender(cfg.PhoneNumber, rc.Api)
}

func newTwilioSender(from string, messages messageCreator) *TwilioSender {
	return &TwilioSender{from: from, messages: messages, backoff: 200 * time.Millisecond}
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	params := &twapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	err := s.withRetry(ctx, func() error {
		_, err := s.messages.CreateMessage(params)
		return err
	})
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	return nil
}

// withRetry retries 429, 5xx and network errors with exponential backoff.
func (s *TwilioSender) withRetry(ctx context.Context, call func() error) error {
	backoff := s.backoff
	var lastErr error

	for attempt := 1; attempt <= twilioMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = call()
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) || attempt == twilioMaxAttempts {
			return lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return lastErr
}

func retryable(err error) bool {
	var restErr *twclient.TwilioRestError
	if errors.As(err, &restErr) {
		switch restErr.Status {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
