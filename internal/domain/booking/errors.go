package booking

import "tour-booking/internal/pkg/errs"

var (
	ErrInvalidStatus        = errs.NewKind("invalid booking status", errs.ErrInvalidInput)
	ErrInvalidPaymentMethod = errs.NewKind("invalid payment method", errs.ErrInvalidInput)
	ErrInvalidPaymentAmount = errs.NewKind("invalid payment amount", errs.ErrInvalidInput)
	ErrNoParticipants       = errs.NewKind("at least one participant is required", errs.ErrInvalidInput)
	ErrNegativeCount        = errs.NewKind("participant counts cannot be negative", errs.ErrInvalidInput)
	ErrInvalidSelectedDate  = errs.NewKind("selected date is required", errs.ErrInvalidInput)

	ErrPaymentExceedsRemaining = errs.NewKind("payment amount exceeds remaining amount", errs.ErrConflict)
	ErrAlreadyCancelled        = errs.NewKind("booking is already cancelled", errs.ErrConflict)
	ErrAlreadyCompleted        = errs.NewKind("cannot cancel completed booking", errs.ErrConflict)
	ErrIllegalTransition       = errs.NewKind("illegal booking status transition", errs.ErrConflict)
	ErrNotDeletable            = errs.NewKind("only pending bookings can be deleted, please cancel confirmed bookings instead", errs.ErrConflict)
	ErrPaymentOnClosedBooking  = errs.NewKind("cannot add payment to a cancelled or completed booking", errs.ErrConflict)

	ErrDepositRequired    = errs.NewKind("cannot confirm booking without deposit payment", errs.ErrPreconditionFailed)
	ErrOutstandingBalance = errs.NewKind("cannot complete booking with outstanding payment", errs.ErrPreconditionFailed)
	ErrTourNotStarted     = errs.NewKind("cannot complete booking before tour date", errs.ErrPreconditionFailed)
)
