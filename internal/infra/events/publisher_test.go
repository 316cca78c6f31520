//go:build unit

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	e := commands.BookingEvent{
		Type:        commands.EventBookingPaymentAdded,
		BookingID:   uuid.New(),
		BookingCode: "BK202506011234",
		Status:      booking.StatusConfirmed,
		Amount:      100,
		OccurredAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	t.Run("keys by booking id and encodes the event", func(t *testing.T) {
		w := &fakeWriter{}
		p := newPublisher(w)

		require.NoError(t, p.Publish(context.Background(), e))
		require.Len(t, w.msgs, 1)

		msg := w.msgs[0]
		assert.Equal(t, e.BookingID.String(), string(msg.Key))
		assert.Equal(t, "booking.payment_added", string(msg.Headers[0].Value))

		var got commands.BookingEvent
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, e, got)

		require.NoError(t, p.Close())
		assert.True(t, w.closed)
	})

	t.Run("wraps writer errors", func(t *testing.T) {
		p := newPublisher(&fakeWriter{err: errors.New("broker unreachable")})
		err := p.Publish(context.Background(), e)
		assert.ErrorContains(t, err, "broker unreachable")
	})

	t.Run("nop publisher accepts everything", func(t *testing.T) {
		assert.NoError(t, NopPublisher{}.Publish(context.Background(), e))
	})
}
