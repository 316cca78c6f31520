package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// NewServeMux routes every email task type to the mailer.
func NewServeMux(mailer Mailer) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	for _, t := range []string{TypeBookingConfirmation, TypePaymentConfirmation, TypeBookingCancellation} {
		mux.HandleFunc(t, handleEmailTask(mailer))
	}
	return mux
}

func handleEmailTask(mailer Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p EmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			slog.Error("invalid email task payload", "type", task.Type(), "error", err.Error())
			// Malformed payloads never succeed on retry.
			return asynq.SkipRetry
		}

		subject, body, err := Render(task.Type(), p)
		if err != nil {
			return err
		}

		if err := mailer.Send(p.CustomerEmail, subject, body); err != nil {
			slog.Warn("failed to send email",
				"type", task.Type(),
				"booking_code", p.BookingCode,
				"error", err.Error())
			return err
		}

		slog.Info("email sent", "type", task.Type(), "booking_code", p.BookingCode)
		return nil
	}
}
