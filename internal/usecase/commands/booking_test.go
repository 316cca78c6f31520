//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/tour"
	"tour-booking/internal/domain/user"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"
	"tour-booking/internal/usecase/shared"
	"tour-booking/tests/common/builder"
	"tour-booking/tests/common/fakestore"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type recordingNotifier struct {
	mu        sync.Mutex
	created   []commands.BookingNotification
	paid      []commands.BookingNotification
	cancelled []commands.BookingNotification
	err       error
}

func (n *recordingNotifier) BookingCreated(_ context.Context, b commands.BookingNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b)
	return n.err
}

func (n *recordingNotifier) PaymentReceived(_ context.Context, b commands.BookingNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paid = append(n.paid, b)
	return n.err
}

func (n *recordingNotifier) BookingCancelled(_ context.Context, b commands.BookingNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, b)
	return n.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []commands.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e commands.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []commands.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]commands.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// stallingPublisher never completes on its own, like a writer stuck on an
// unreachable broker.
type stallingPublisher struct{}

func (stallingPublisher) Publish(ctx context.Context, _ commands.BookingEvent) error {
	<-ctx.Done()
	return ctx.Err()
}

type BookingCommandsTestSuite struct {
	suite.Suite
	store     *fakestore.Store
	clock     *clock.MockClock
	notifier  *recordingNotifier
	publisher *recordingPublisher
	uc        commands.BookingCommands

	customer shared.Actor
	other    shared.Actor
	staff    shared.Actor
	admin    shared.Actor
	tour     tour.Tour
	start    time.Time
	end      time.Time
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.store = fakestore.New()
	s.clock = clock.NewMockClock(builder.DefaultNow)
	s.notifier = &recordingNotifier{}
	s.publisher = &recordingPublisher{}

	bookingQueries := queries.NewBookingQueries(s.store.ReadStore(), queries.PageLimits{Default: 10, Max: 100})
	s.uc = commands.NewBookingUseCase(s.store, bookingQueries, s.notifier, s.publisher,
		booking.NewDefaultPricingCalculator(), s.clock)

	s.customer = s.addUser("customer@example.com", user.RoleCustomer)
	s.other = s.addUser("other@example.com", user.RoleCustomer)
	s.staff = s.addUser("staff@example.com", user.RoleStaff)
	s.admin = s.addUser("admin@example.com", user.RoleAdmin)

	s.tour = tour.Tour{
		ID:           uuid.New(),
		Name:         "Ha Long Bay Cruise",
		Slug:         "ha-long-bay-cruise",
		Status:       tour.StatusActive,
		MinGroupSize: 1,
		MaxGroupSize: 20,
		Prices:       tour.Prices{Adult: 1_000_000, Child: 500_000, Infant: 0},
	}
	s.store.AddTour(s.tour)

	// 20 days out, so cancellation falls in the 50% band.
	s.start = booking.DateOnly(builder.DefaultNow.AddDate(0, 0, 20))
	s.end = builder.NewBookingBuilder().WithStartDate(s.start).EndDate
	s.store.AddSlot(tour.DateSlot{
		TourID:    s.tour.ID,
		StartDate: s.start,
		EndDate:   s.end,
		MaxSlots:  10,
	})
}

func (s *BookingCommandsTestSuite) addUser(email string, role user.Role) shared.Actor {
	id := uuid.New()
	s.store.AddUser(shared.UserSnapshot{ID: id, Email: email, FullName: email, Role: role.String()})
	return shared.Actor{UserID: id, Role: role}
}

func (s *BookingCommandsTestSuite) input(adults int) commands.CreateBookingInput {
	return builder.NewBookingBuilder().
		WithTourID(s.tour.ID).
		WithStartDate(s.start).
		WithParty(adults, 0, 0).
		BuildCreateInput()
}

func (s *BookingCommandsTestSuite) booked() int {
	slot, ok := s.store.Slot(s.tour.ID, s.start)
	s.Require().True(ok)
	return slot.BookedSlots
}

func (s *BookingCommandsTestSuite) create(adults int) *queries.BookingView {
	v, err := s.uc.CreateBooking(context.Background(), s.customer, s.input(adults))
	s.Require().NoError(err)
	return v
}

func (s *BookingCommandsTestSuite) payDeposit(v *queries.BookingView) *queries.BookingView {
	paid, err := s.uc.AddPayment(context.Background(), s.customer, v.ID, commands.AddPaymentInput{
		Amount: v.Payment.DepositRequired,
	})
	s.Require().NoError(err)
	return paid
}

func (s *BookingCommandsTestSuite) requireKind(err error, kind errs.Kind) {
	s.T().Helper()
	s.Require().Error(err)
	s.Equal(kind, errs.KindOf(err), err.Error())
}

func (s *BookingCommandsTestSuite) TestCreateBooking() {
	s.Run("4 adults on an empty departure", func() {
		v := s.create(4)

		s.Equal(booking.StatusPending, v.Status)
		s.Equal(4, v.TotalParticipants)
		s.Equal(int64(4_000_000), v.Pricing.Total)
		s.Equal(int64(1_600_000), v.Payment.DepositRequired)
		s.Equal(int64(4_000_000), v.Payment.RemainingAmount)
		s.False(v.Payment.DepositPaid)
		s.Equal(4, s.booked())
		s.Require().NotNil(v.Tour)
		s.Equal(s.tour.Name, v.Tour.Name)

		available, found, err := s.tourCatalog().GetAvailableSlots(context.Background(), nil, s.tour.ID, s.start, time.Time{})
		s.Require().NoError(err)
		s.True(found)
		s.Equal(6, available)

		s.Require().Len(s.notifier.created, 1)
		s.Equal(v.BookingCode, s.notifier.created[0].BookingCode)
		s.Equal(s.tour.Name, s.notifier.created[0].TourName)
		s.Equal([]commands.EventType{commands.EventBookingCreated}, s.publisher.types())
	})
}

// Two departures leave on the same day. A request without an end date
// books the earliest one, and only that row is counted and released.
func (s *BookingCommandsTestSuite) TestSameDayDepartures() {
	short := s.start.AddDate(0, 0, 1)
	s.store.AddSlot(tour.DateSlot{TourID: s.tour.ID, StartDate: s.start, EndDate: short, MaxSlots: 4})
	ctx := context.Background()

	booked := func(end time.Time) int {
		slot, ok := s.store.SlotFor(s.tour.ID, s.start, end)
		s.Require().True(ok)
		return slot.BookedSlots
	}

	s.Run("start date only resolves to the earliest departure", func() {
		in := s.input(3)
		in.SelectedDate.EndDate = time.Time{}

		v, err := s.uc.CreateBooking(ctx, s.customer, in)
		s.Require().NoError(err)

		s.Equal(short, v.SelectedDate.EndDate)
		s.Equal(3, booked(short))
		s.Equal(0, booked(s.end))

		_, err = s.uc.CancelBooking(ctx, s.customer, v.ID, "")
		s.Require().NoError(err)
		s.Equal(0, booked(short))
		s.Equal(0, booked(s.end))
	})

	s.Run("capacity comes from the resolved departure only", func() {
		in := s.input(5)
		in.SelectedDate.EndDate = time.Time{}

		_, err := s.uc.CreateBooking(ctx, s.customer, in)

		s.True(errs.Is(err, tour.ErrInsufficientSlots), err)
		s.Equal(0, booked(short))
		s.Equal(0, booked(s.end))
	})

	s.Run("explicit end date picks the longer departure", func() {
		v, err := s.uc.CreateBooking(ctx, s.customer, s.input(5))
		s.Require().NoError(err)

		s.Equal(s.end, v.SelectedDate.EndDate)
		s.Equal(5, booked(s.end))
		s.Equal(0, booked(short))
	})
}

func (s *BookingCommandsTestSuite) TestCreateBookingRejections() {
	cases := []struct {
		name   string
		actor  func() shared.Actor
		mutate func(*commands.CreateBookingInput)
		kind   errs.Kind
		errIs  error
	}{
		{
			name:  "unknown user",
			actor: func() shared.Actor { return shared.Actor{UserID: uuid.New(), Role: user.RoleCustomer} },
			kind:  errs.KindNotFound,
			errIs: commands.ErrUserNotFound,
		},
		{
			name:   "unknown tour",
			mutate: func(in *commands.CreateBookingInput) { in.TourID = uuid.New() },
			kind:   errs.KindNotFound,
			errIs:  tour.ErrTourNotFound,
		},
		{
			name: "date without a departure",
			mutate: func(in *commands.CreateBookingInput) {
				in.SelectedDate.StartDate = in.SelectedDate.StartDate.AddDate(0, 0, 1)
				in.SelectedDate.EndDate = time.Time{}
			},
			kind:  errs.KindInvalidInput,
			errIs: tour.ErrDateNotAvailable,
		},
		{
			name:   "more participants than slots",
			mutate: func(in *commands.CreateBookingInput) { in.Adults = 11 },
			kind:   errs.KindConflict,
			errIs:  tour.ErrInsufficientSlots,
		},
		{
			name:   "no participants",
			mutate: func(in *commands.CreateBookingInput) { in.Adults = 0 },
			kind:   errs.KindInvalidInput,
			errIs:  booking.ErrNoParticipants,
		},
		{
			name:   "unknown payment method",
			mutate: func(in *commands.CreateBookingInput) { in.PaymentMethod = "paypal" },
			kind:   errs.KindInvalidInput,
			errIs:  booking.ErrInvalidPaymentMethod,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			actor := s.customer
			if tc.actor != nil {
				actor = tc.actor()
			}
			in := s.input(2)
			if tc.mutate != nil {
				tc.mutate(&in)
			}

			_, err := s.uc.CreateBooking(context.Background(), actor, in)

			s.requireKind(err, tc.kind)
			s.True(errs.Is(err, tc.errIs), err.Error())
			s.Equal(0, s.booked())
			s.Equal(0, s.store.BookingCount())
		})
	}
}

func (s *BookingCommandsTestSuite) TestCreateBookingInactiveTour() {
	inactive := s.tour
	inactive.ID = uuid.New()
	inactive.Status = tour.StatusInactive
	s.store.AddTour(inactive)

	in := s.input(2)
	in.TourID = inactive.ID
	_, err := s.uc.CreateBooking(context.Background(), s.customer, in)

	s.True(errs.Is(err, tour.ErrTourInactive))
}

// Two parties of 6 race for 10 seats. Creation is serialized on the
// departure, so exactly one wins and the ledger never oversells.
func (s *BookingCommandsTestSuite) TestConcurrentCreateDoesNotOversell() {
	const attempts = 2
	var (
		wg   sync.WaitGroup
		errc = make(chan error, attempts)
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.uc.CreateBooking(context.Background(), s.customer, s.input(6))
			errc <- err
		}()
	}
	wg.Wait()
	close(errc)

	var failures []error
	for err := range errc {
		if err != nil {
			failures = append(failures, err)
		}
	}
	s.Require().Len(failures, 1)
	s.True(errs.Is(failures[0], tour.ErrInsufficientSlots))
	s.Equal(errs.KindConflict, errs.KindOf(failures[0]))
	s.Equal(6, s.booked())
	s.Equal(1, s.store.BookingCount())
}

func (s *BookingCommandsTestSuite) TestAddPayment() {
	s.Run("deposit payment auto confirms", func() {
		v := s.create(4)

		paid := s.payDeposit(v)

		s.True(paid.Payment.DepositPaid)
		s.Equal(booking.PaymentStatusPartial, paid.Payment.Status)
		s.Equal(int64(1_600_000), paid.Payment.PaidAmount)
		s.Equal(paid.Pricing.Total-paid.Payment.PaidAmount, paid.Payment.RemainingAmount)
		s.Equal(booking.StatusConfirmed, paid.Status)
		s.Require().NotNil(paid.ConfirmedAt)
		s.Require().Len(paid.StatusHistory, 2)
		s.Equal(booking.NoteAutoConfirmed, paid.StatusHistory[1].Note)

		s.Require().Len(s.notifier.paid, 1)
		s.Require().NotNil(s.notifier.paid[0].Transaction)
		s.Equal(int64(1_600_000), s.notifier.paid[0].Transaction.Amount)
		s.Equal([]commands.EventType{
			commands.EventBookingCreated,
			commands.EventBookingPaymentAdded,
			commands.EventBookingStatusChanged,
		}, s.publisher.types())
	})
}

func (s *BookingCommandsTestSuite) TestAddPaymentLedgerInvariants() {
	v := s.create(4)
	ctx := context.Background()

	amounts := []int64{500_000, 1_100_000, 400_000, 2_000_000}
	var depositSeen bool
	for _, amount := range amounts {
		before := len(s.mustGet(v.ID).StatusHistory)

		got, err := s.uc.AddPayment(ctx, s.customer, v.ID, commands.AddPaymentInput{Amount: amount})
		s.Require().NoError(err)

		s.Equal(got.Pricing.Total-got.Payment.PaidAmount, got.Payment.RemainingAmount)
		if depositSeen {
			s.True(got.Payment.DepositPaid)
		}
		depositSeen = got.Payment.DepositPaid
		s.GreaterOrEqual(len(got.StatusHistory), before)
	}

	final := s.mustGet(v.ID)
	s.Equal(int64(0), final.Payment.RemainingAmount)
	s.Equal(booking.PaymentStatusCompleted, final.Payment.Status)
	s.Len(final.Payment.Transactions, len(amounts))

	_, err := s.uc.AddPayment(ctx, s.customer, v.ID, commands.AddPaymentInput{Amount: 1})
	s.True(errs.Is(err, booking.ErrPaymentExceedsRemaining))
}

func (s *BookingCommandsTestSuite) TestAddPaymentRejections() {
	v := s.create(2)
	ctx := context.Background()

	_, err := s.uc.AddPayment(ctx, s.customer, v.ID, commands.AddPaymentInput{Amount: 0})
	s.requireKind(err, errs.KindInvalidInput)

	_, err = s.uc.AddPayment(ctx, s.customer, v.ID, commands.AddPaymentInput{Amount: v.Pricing.Total + 1})
	s.requireKind(err, errs.KindConflict)

	_, err = s.uc.AddPayment(ctx, s.other, v.ID, commands.AddPaymentInput{Amount: 100})
	s.requireKind(err, errs.KindForbidden)

	_, err = s.uc.AddPayment(ctx, s.customer, uuid.New(), commands.AddPaymentInput{Amount: 100})
	s.requireKind(err, errs.KindNotFound)

	unchanged := s.mustGet(v.ID)
	s.Equal(int64(0), unchanged.Payment.PaidAmount)
	s.Empty(unchanged.Payment.Transactions)
}

func (s *BookingCommandsTestSuite) TestAdminAddPayment() {
	v := s.create(2)

	got, err := s.uc.AddPayment(context.Background(), s.admin, v.ID, commands.AddPaymentInput{
		Amount: 100_000,
		Method: string(booking.PaymentCash),
	})
	s.Require().NoError(err)

	s.Require().Len(got.Payment.Transactions, 1)
	txn := got.Payment.Transactions[0]
	s.Equal(booking.PaymentCash, txn.Method)
	s.Equal(booking.TransactionCompleted, txn.Status)
	s.NotEmpty(txn.TransactionID)
	s.Equal(s.admin.UserID, got.UpdatedBy)
}

func (s *BookingCommandsTestSuite) TestCancelBooking() {
	s.Run("confirmed booking 20 days out", func() {
		v := s.payDeposit(s.create(4))
		s.Require().Equal(4, s.booked())

		res, err := s.uc.CancelBooking(context.Background(), s.customer, v.ID, "change of plans")
		s.Require().NoError(err)

		s.Equal(int64(800_000), res.RefundAmount)
		s.Equal("20 days until tour", res.RefundPolicy)
		s.Equal(booking.StatusCancelled, res.Booking.Status)
		s.Require().NotNil(res.Booking.Cancellation)
		s.True(res.Booking.Cancellation.IsCancelled)
		s.Equal(booking.RefundPending, res.Booking.Cancellation.RefundStatus)
		s.Equal("change of plans", res.Booking.Cancellation.Reason)
		s.Equal(0, s.booked())

		s.Require().Len(s.notifier.cancelled, 1)
		s.Equal("20 days until tour", s.notifier.cancelled[0].RefundPolicy)
		s.Equal(int64(800_000), s.notifier.cancelled[0].RefundAmount)
	})

	s.Run("second cancel conflicts", func() {
		v := s.create(1)
		_, err := s.uc.CancelBooking(context.Background(), s.customer, v.ID, "")
		s.Require().NoError(err)

		_, err = s.uc.CancelBooking(context.Background(), s.customer, v.ID, "")
		s.True(errs.Is(err, booking.ErrAlreadyCancelled))
		s.requireKind(err, errs.KindConflict)
	})
}

func (s *BookingCommandsTestSuite) TestCancelSurvivesReleaseFailure() {
	v := s.create(3)
	s.store.FailRelease = errors.New("ledger unavailable")

	res, err := s.uc.CancelBooking(context.Background(), s.customer, v.ID, "")
	s.Require().NoError(err)

	s.Equal(booking.StatusCancelled, res.Booking.Status)
	s.Equal(int64(0), res.RefundAmount)
	s.Equal(3, s.booked())
}

func (s *BookingCommandsTestSuite) TestBestEffortSideEffects() {
	s.notifier.err = errors.New("queue down")
	s.publisher.err = errors.New("broker down")

	v := s.create(2)

	s.Equal(booking.StatusPending, v.Status)
	s.Len(s.notifier.created, 1)
	s.Equal(2, s.booked())
}

func (s *BookingCommandsTestSuite) TestStalledBrokerDoesNotHoldTheRequest() {
	bookingQueries := queries.NewBookingQueries(s.store.ReadStore(), queries.PageLimits{Default: 10, Max: 100})
	uc := commands.NewBookingUseCase(s.store, bookingQueries, s.notifier, stallingPublisher{},
		booking.NewDefaultPricingCalculator(), s.clock, commands.WithSideEffectTimeout(50*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		v, err := uc.CreateBooking(ctx, s.customer, s.input(2))
		if err == nil {
			_, err = uc.CancelBooking(ctx, s.customer, v.ID, "")
		}
		done <- err
	}()

	select {
	case err := <-done:
		s.Require().NoError(err)
	case <-time.After(3 * time.Second):
		s.FailNow("booking request still waiting on event publishing")
	}
	s.Equal(0, s.booked())
	s.Len(s.notifier.created, 1)
	s.Len(s.notifier.cancelled, 1)
}

func (s *BookingCommandsTestSuite) TestDeleteBooking() {
	s.Run("pending booking releases its slots", func() {
		v := s.create(3)

		s.Require().NoError(s.uc.DeleteBooking(context.Background(), s.customer, v.ID))

		_, ok := s.store.Booking(v.ID)
		s.False(ok)
		s.Equal(0, s.booked())
		s.Contains(s.publisher.types(), commands.EventBookingDeleted)
	})

	s.Run("confirmed booking cannot be deleted", func() {
		v := s.payDeposit(s.create(4))

		err := s.uc.DeleteBooking(context.Background(), s.customer, v.ID)

		s.True(errs.Is(err, booking.ErrNotDeletable))
		s.requireKind(err, errs.KindConflict)
		after := s.mustGet(v.ID)
		s.Equal(booking.StatusConfirmed, after.Status)
		s.Equal(4, s.booked())
	})

	s.Run("someone else's booking", func() {
		v := s.create(1)

		err := s.uc.DeleteBooking(context.Background(), s.other, v.ID)

		s.requireKind(err, errs.KindForbidden)
	})
}

func (s *BookingCommandsTestSuite) TestUpdateBooking() {
	v := s.create(2)
	phone := "0987654321"
	requests := "vegetarian meals"
	notes := "VIP"

	got, err := s.uc.UpdateBooking(context.Background(), s.customer, v.ID, booking.DetailsPatch{
		CustomerInfo: &booking.CustomerInfo{
			FullName: "Tran Thi B",
			Email:    "b@example.com",
			Phone:    phone,
		},
		SpecialRequests: &requests,
		InternalNotes:   &notes,
	})
	s.Require().NoError(err)

	s.Equal("Tran Thi B", got.CustomerInfo.FullName)
	s.Equal(booking.DefaultNationality, got.CustomerInfo.Nationality)
	s.Equal(requests, got.SpecialRequests)
	s.Equal(notes, got.InternalNotes)

	if diff := cmp.Diff(v.Pricing, got.Pricing); diff != "" {
		s.Failf("pricing changed", "(-before +after):\n%s", diff)
	}
	s.Equal(v.Payment.RemainingAmount, got.Payment.RemainingAmount)
	s.Equal(v.Status, got.Status)
	s.Equal(v.TotalParticipants, got.TotalParticipants)

	_, err = s.uc.UpdateBooking(context.Background(), s.other, v.ID, booking.DetailsPatch{SpecialRequests: &requests})
	s.requireKind(err, errs.KindForbidden)
}

func (s *BookingCommandsTestSuite) TestUpdateStatus() {
	ctx := context.Background()

	s.Run("only admins", func() {
		v := s.create(1)
		for _, actor := range []shared.Actor{s.customer, s.staff} {
			_, err := s.uc.UpdateStatus(ctx, actor, v.ID, commands.UpdateStatusInput{Status: "confirmed"})
			s.True(errs.Is(err, commands.ErrAdminOnly))
		}
	})

	s.Run("confirm without deposit is refused", func() {
		v := s.create(2)

		_, err := s.uc.UpdateStatus(ctx, s.admin, v.ID, commands.UpdateStatusInput{Status: "confirmed"})

		s.True(errs.Is(err, booking.ErrDepositRequired))
		s.requireKind(err, errs.KindPreconditionFailed)
		after := s.mustGet(v.ID)
		s.Equal(booking.StatusPending, after.Status)
		s.Len(after.StatusHistory, 1)
	})

	s.Run("complete with balance is refused", func() {
		v := s.payDeposit(s.create(2))

		_, err := s.uc.UpdateStatus(ctx, s.admin, v.ID, commands.UpdateStatusInput{Status: "completed"})

		s.True(errs.Is(err, booking.ErrOutstandingBalance))
		s.Equal(booking.StatusConfirmed, s.mustGet(v.ID).Status)
	})

	s.Run("complete before the tour starts is refused", func() {
		v := s.create(1)
		_, err := s.uc.AddPayment(ctx, s.customer, v.ID, commands.AddPaymentInput{Amount: v.Pricing.Total})
		s.Require().NoError(err)

		_, err = s.uc.UpdateStatus(ctx, s.admin, v.ID, commands.UpdateStatusInput{Status: "completed"})

		s.True(errs.Is(err, booking.ErrTourNotStarted))
		s.Equal(booking.StatusConfirmed, s.mustGet(v.ID).Status)
	})

	s.Run("complete after the tour starts", func() {
		v := s.create(1)
		_, err := s.uc.AddPayment(ctx, s.customer, v.ID, commands.AddPaymentInput{Amount: v.Pricing.Total})
		s.Require().NoError(err)
		s.clock.Set(s.start.Add(time.Hour))
		defer s.clock.Set(builder.DefaultNow)

		got, err := s.uc.UpdateStatus(ctx, s.admin, v.ID, commands.UpdateStatusInput{Status: "completed", Note: "trip done"})
		s.Require().NoError(err)

		s.Equal(booking.StatusCompleted, got.Status)
		s.Require().Len(got.StatusHistory, 3)
		last := got.StatusHistory[2]
		s.Equal(booking.StatusCompleted, last.Status)
		s.Equal("trip done", last.Note)
		s.Equal(s.admin.UserID, last.ChangedBy)
	})

	s.Run("cancelled goes through the refund path", func() {
		v := s.payDeposit(s.create(2))

		got, err := s.uc.UpdateStatus(ctx, s.admin, v.ID, commands.UpdateStatusInput{Status: "cancelled", Note: "weather"})
		s.Require().NoError(err)

		s.Equal(booking.StatusCancelled, got.Status)
		s.Require().NotNil(got.Cancellation)
		s.Equal(int64(400_000), got.Cancellation.RefundAmount)
		s.Equal("weather", got.Cancellation.Reason)
	})

	s.Run("unknown status", func() {
		v := s.create(1)
		_, err := s.uc.UpdateStatus(ctx, s.admin, v.ID, commands.UpdateStatusInput{Status: "archived"})
		s.requireKind(err, errs.KindInvalidInput)
	})
}

func (s *BookingCommandsTestSuite) TestStatusHistoryGrowsByOnePerTransition() {
	ctx := context.Background()
	v := s.create(1)
	s.Require().Len(v.StatusHistory, 1)

	v, err := s.uc.AddPayment(ctx, s.customer, v.ID, commands.AddPaymentInput{Amount: v.Pricing.Total})
	s.Require().NoError(err)
	s.Require().Len(v.StatusHistory, 2)

	// A refused transition leaves history alone.
	_, err = s.uc.UpdateStatus(ctx, s.admin, v.ID, commands.UpdateStatusInput{Status: "pending"})
	s.Require().Error(err)
	s.Len(s.mustGet(v.ID).StatusHistory, 2)

	res, err := s.uc.CancelBooking(ctx, s.admin, v.ID, "")
	s.Require().NoError(err)
	s.Len(res.Booking.StatusHistory, 3)
	s.Equal(v.StatusHistory, res.Booking.StatusHistory[:2])
}

func (s *BookingCommandsTestSuite) mustGet(id uuid.UUID) *queries.BookingView {
	v, err := s.store.ReadStore().FindByID(context.Background(), id)
	s.Require().NoError(err)
	return v
}

func (s *BookingCommandsTestSuite) tourCatalog() shared.TourCatalog {
	var catalog shared.TourCatalog
	_ = s.store.Within(context.Background(), func(_ context.Context, tx shared.Tx) error {
		catalog = tx.Tours()
		return nil
	})
	return catalog
}

func TestSlotLedgerFloor(t *testing.T) {
	store := fakestore.New()
	tourID := uuid.New()
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	store.AddSlot(tour.DateSlot{TourID: tourID, StartDate: start, EndDate: end, MaxSlots: 5})

	ops := []int{+3, -1, -10, +2, -1, -1, -5, +4}
	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		for _, n := range ops {
			var err error
			if n > 0 {
				err = tx.Tours().IncrementBookedSlots(ctx, tx.DB(), tourID, start, end, n)
			} else {
				err = tx.Tours().DecrementBookedSlots(ctx, tx.DB(), tourID, start, end, -n)
			}
			require.NoError(t, err)

			slot, _ := store.Slot(tourID, start)
			assert.GreaterOrEqual(t, slot.BookedSlots, 0)
			available, found, err := tx.Tours().GetAvailableSlots(ctx, tx.DB(), tourID, start, time.Time{})
			require.NoError(t, err)
			assert.True(t, found)
			assert.GreaterOrEqual(t, available, 0)
		}

		// Without an end date no departure is addressed.
		require.NoError(t, tx.Tours().IncrementBookedSlots(ctx, tx.DB(), tourID, start, time.Time{}, 1))
		return nil
	})
	require.NoError(t, err)

	slot, _ := store.Slot(tourID, start)
	assert.Equal(t, 4, slot.BookedSlots)
}
