package response

import (
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type TourSummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type UserSummaryResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type BookingResponse struct {
	ID                string                    `json:"id"`
	BookingCode       string                    `json:"bookingCode"`
	TourID            string                    `json:"tourId"`
	UserID            string                    `json:"userId"`
	Tour              *TourSummaryResponse      `json:"tour,omitempty"`
	User              *UserSummaryResponse      `json:"user,omitempty"`
	SelectedDate      booking.SelectedDate      `json:"selectedDate"`
	NumberOfAdults    int                       `json:"numberOfAdults"`
	NumberOfChildren  int                       `json:"numberOfChildren"`
	NumberOfInfants   int                       `json:"numberOfInfants"`
	TotalParticipants int                       `json:"totalParticipants"`
	CustomerInfo      booking.CustomerInfo      `json:"customerInfo"`
	Participants      []booking.Participant     `json:"participants"`
	Pricing           booking.Pricing           `json:"pricing"`
	Payment           booking.Payment           `json:"payment"`
	Status            string                    `json:"status"`
	StatusHistory     []booking.StatusChange    `json:"statusHistory"`
	Cancellation      *booking.Cancellation     `json:"cancellation,omitempty"`
	SpecialRequests   string                    `json:"specialRequests"`
	AddOns            []booking.AddOn           `json:"addOns"`
	EmergencyContact  *booking.EmergencyContact `json:"emergencyContact,omitempty"`
	InternalNotes     string                    `json:"internalNotes,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
	ConfirmedAt       *time.Time                `json:"confirmedAt,omitempty"`
	CancelledAt       *time.Time                `json:"cancelledAt,omitempty"`
}

var copyOptions = copier.Option{
	DeepCopy: true,
	Converters: []copier.TypeConverter{
		{
			SrcType: uuid.UUID{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return src.(uuid.UUID).String(), nil
			},
		},
		{
			SrcType: booking.Status(""),
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return string(src.(booking.Status)), nil
			},
		},
	},
}

// FromBookingView hides internal notes unless showInternal is set.
func FromBookingView(v *queries.BookingView, showInternal bool) (*BookingResponse, error) {
	var res BookingResponse
	if err := copier.CopyWithOption(&res, v, copyOptions); err != nil {
		return nil, err
	}
	if !showInternal {
		res.InternalNotes = ""
	}
	return &res, nil
}

func FromBookingViews(views []*queries.BookingView, showInternal bool) ([]*BookingResponse, error) {
	out := make([]*BookingResponse, 0, len(views))
	for _, v := range views {
		res, err := FromBookingView(v, showInternal)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

type CancelBookingResponse struct {
	Booking      *BookingResponse `json:"booking"`
	RefundAmount int64            `json:"refundAmount"`
	RefundPolicy string           `json:"refundPolicy"`
}

func FromCancelResult(r *commands.CancelResult, showInternal bool) (*CancelBookingResponse, error) {
	b, err := FromBookingView(r.Booking, showInternal)
	if err != nil {
		return nil, err
	}
	return &CancelBookingResponse{
		Booking:      b,
		RefundAmount: r.RefundAmount,
		RefundPolicy: r.RefundPolicy,
	}, nil
}

type BookingStatisticsResponse struct {
	Total        int   `json:"total"`
	Pending      int   `json:"pending"`
	Confirmed    int   `json:"confirmed"`
	Completed    int   `json:"completed"`
	Cancelled    int   `json:"cancelled"`
	TotalRevenue int64 `json:"totalRevenue"`
	TotalPaid    int64 `json:"totalPaid"`
}

func FromStatistics(s *queries.BookingStatistics) *BookingStatisticsResponse {
	var res BookingStatisticsResponse
	_ = copier.Copy(&res, s)
	return &res
}
