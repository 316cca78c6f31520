package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/commands"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher keys messages by booking id so every event of one
// booking lands on the same partition in order.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			slog.Warn("kafka writer error", "detail", msg, "args", args)
		}),
	}
	return newPublisher(writer)
}

func newPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e commands.BookingEvent) error {
	value, err := json.Marshal(e)
	if err != nil {
		return errs.Wrap(err, "encode booking event")
	}

	msg := kafka.Message{
		Key:   []byte(e.BookingID.String()),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errs.Wrapf(err, "publish %s", e.Type)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, commands.BookingEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
