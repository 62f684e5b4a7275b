// Package kafka publishes parcel lifecycle events to a Kafka topic, keyed by
// tracking code so one parcel's events land on one partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/swiftify/logistics-api/internal/core/ports"
)

// ParcelEvent is the message value written to the topic.
type ParcelEvent struct {
	Kind       string    `json:"kind"`
	TrackingID string    `json:"tracking_id,omitempty"`
	ContactID  string    `json:"contact_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Progress   *int      `json:"progress,omitempty"`
	Channel    string    `json:"channel,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ports.EventHandler on top of a kafka.Writer.
type Publisher struct {
	writer messageWriter
	topic  string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &Publisher{writer: writer, topic: topic}
}

func (p *Publisher) Handle(ctx context.Context, event ports.Event) error {
	msg := ParcelEvent{
		Kind:       string(event.Kind),
		Channel:    string(event.Channel),
		OccurredAt: event.OccurredAt,
	}
	if event.Parcel != nil {
		progress := event.Parcel.Progress
		msg.TrackingID = event.Parcel.ID
		msg.Status = string(event.Parcel.Status)
		msg.Progress = &progress
	} else if event.Contact != nil {
		msg.ContactID = event.Contact.ID
	} else if event.Kind == ports.EventParcelDeleted {
		msg.TrackingID = event.Key
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: data,
		Time:  event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to write message to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
