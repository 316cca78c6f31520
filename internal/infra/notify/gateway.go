package notify

import (
	"context"

	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/commands"

	"github.com/hibiken/asynq"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Gateway hands booking emails to the worker through Redis. Delivery
// happens in cmd/worker.
type Gateway struct {
	client Enqueuer
}

func NewGateway(client Enqueuer) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) BookingCreated(ctx context.Context, n commands.BookingNotification) error {
	return g.enqueue(ctx, TypeBookingConfirmation, n)
}

func (g *Gateway) PaymentReceived(ctx context.Context, n commands.BookingNotification) error {
	return g.enqueue(ctx, TypePaymentConfirmation, n)
}

func (g *Gateway) BookingCancelled(ctx context.Context, n commands.BookingNotification) error {
	return g.enqueue(ctx, TypeBookingCancellation, n)
}

func (g *Gateway) enqueue(ctx context.Context, taskType string, n commands.BookingNotification) error {
	if n.CustomerEmail == "" {
		return nil
	}

	task, opts, err := NewEmailTask(taskType, payloadFromNotification(n))
	if err != nil {
		return errs.Wrapf(err, "build %s task", taskType)
	}
	if _, err := g.client.EnqueueContext(ctx, task, opts...); err != nil {
		return errs.Wrapf(err, "enqueue %s for booking %s", taskType, n.BookingCode)
	}
	return nil
}
