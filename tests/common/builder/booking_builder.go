//go:build unit || e2e

package builder

import (
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/infra/converter"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

var DefaultNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type BookingBuilder struct {
	TourID          uuid.UUID
	UserID          uuid.UUID
	StartDate       time.Time
	EndDate         time.Time
	Adults          int
	Children        int
	Infants         int
	AdultPrice      int64
	ChildPrice      int64
	InfantPrice     int64
	PaymentMethod   booking.PaymentMethod
	CustomerInfo    booking.CustomerInfo
	SpecialRequests string
	Now             time.Time
}

func NewBookingBuilder() *BookingBuilder {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		TourID:      uuid.New(),
		UserID:      uuid.New(),
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 3),
		Adults:      2,
		Children:    1,
		Infants:     0,
		AdultPrice:  100,
		ChildPrice:  50,
		InfantPrice: 0,
		CustomerInfo: booking.CustomerInfo{
			FullName: "Nguyen Van A",
			Email:    "customer@example.com",
			Phone:    "0901234567",
		},
		Now: DefaultNow,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildParams() booking.NewBookingParams {
	return booking.NewBookingParams{
		TourID:          b.TourID,
		UserID:          b.UserID,
		SelectedDate:    booking.SelectedDate{StartDate: b.StartDate, EndDate: b.EndDate},
		Adults:          b.Adults,
		Children:        b.Children,
		Infants:         b.Infants,
		AdultPrice:      b.AdultPrice,
		ChildPrice:      b.ChildPrice,
		InfantPrice:     b.InfantPrice,
		PaymentMethod:   b.PaymentMethod,
		CustomerInfo:    b.CustomerInfo,
		SpecialRequests: b.SpecialRequests,
	}
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	services := &booking.Services{
		Clock:   clock.NewMockClock(b.Now),
		Pricing: booking.NewDefaultPricingCalculator(),
	}
	return booking.NewBooking(services, b.BuildParams())
}

func (b *BookingBuilder) BuildCreateInput() commands.CreateBookingInput {
	return commands.CreateBookingInput{
		TourID:          b.TourID,
		SelectedDate:    booking.SelectedDate{StartDate: b.StartDate, EndDate: b.EndDate},
		Adults:          b.Adults,
		Children:        b.Children,
		Infants:         b.Infants,
		PaymentMethod:   string(b.PaymentMethod),
		CustomerInfo:    b.CustomerInfo,
		SpecialRequests: b.SpecialRequests,
	}
}

// BuildView panics on invalid builder state; only for handler tests.
func (b *BookingBuilder) BuildView() *queries.BookingView {
	d, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	v := converter.BookingViewFromDomain(d)
	v.Tour = &queries.TourSummary{ID: b.TourID, Name: "Ha Long Bay Cruise", Slug: "ha-long-bay-cruise"}
	return v
}

// BuildRequestMap is the JSON body of a create request.
func (b *BookingBuilder) BuildRequestMap() map[string]any {
	m := map[string]any{
		"tourId": b.TourID.String(),
		"selectedDate": map[string]any{
			"startDate": b.StartDate.Format("2006-01-02"),
			"endDate":   b.EndDate.Format("2006-01-02"),
		},
		"numberOfAdults":   b.Adults,
		"numberOfChildren": b.Children,
		"numberOfInfants":  b.Infants,
		"customerInfo": map[string]any{
			"fullName": b.CustomerInfo.FullName,
			"email":    b.CustomerInfo.Email,
			"phone":    b.CustomerInfo.Phone,
		},
	}
	if b.PaymentMethod != "" {
		m["paymentMethod"] = string(b.PaymentMethod)
	}
	if b.SpecialRequests != "" {
		m["specialRequests"] = b.SpecialRequests
	}
	return m
}

// Fluent builder methods
func (b *BookingBuilder) WithTourID(id uuid.UUID) *BookingBuilder {
	b.TourID = id
	return b
}

func (b *BookingBuilder) WithUserID(id uuid.UUID) *BookingBuilder {
	b.UserID = id
	return b
}

func (b *BookingBuilder) WithParty(adults, children, infants int) *BookingBuilder {
	b.Adults, b.Children, b.Infants = adults, children, infants
	return b
}

func (b *BookingBuilder) WithPrices(adult, child, infant int64) *BookingBuilder {
	b.AdultPrice, b.ChildPrice, b.InfantPrice = adult, child, infant
	return b
}

func (b *BookingBuilder) WithStartDate(start time.Time) *BookingBuilder {
	b.StartDate = start
	b.EndDate = start.AddDate(0, 0, 3)
	return b
}

func (b *BookingBuilder) WithPaymentMethod(m booking.PaymentMethod) *BookingBuilder {
	b.PaymentMethod = m
	return b
}

func (b *BookingBuilder) WithNow(now time.Time) *BookingBuilder {
	b.Now = now
	return b
}
