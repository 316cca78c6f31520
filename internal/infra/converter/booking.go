package converter

import (
	"encoding/json"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/infra/pgquery"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/pkg/pgconv"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

func BookingToInfra(b *booking.Booking) (pgquery.Bookings, error) {
	s := b.State()
	row := pgquery.Bookings{
		ID:                s.ID,
		BookingCode:       s.BookingCode,
		TourID:            s.TourID,
		UserID:            s.UserID,
		StartDate:         pgconv.DateToPgtype(s.SelectedDate.StartDate),
		EndDate:           pgconv.DateToPgtype(s.SelectedDate.EndDate),
		NumberOfAdults:    int32(s.NumberOfAdults),
		NumberOfChildren:  int32(s.NumberOfChildren),
		NumberOfInfants:   int32(s.NumberOfInfants),
		TotalParticipants: int32(s.TotalParticipants),
		Status:            s.Status.String(),
		SpecialRequests:   s.SpecialRequests,
		InternalNotes:     s.InternalNotes,
		CreatedAt:         pgconv.TimeToPgtype(s.CreatedAt),
		UpdatedAt:         pgconv.TimeToPgtype(s.UpdatedAt),
		ConfirmedAt:       pgconv.TimePtrToPgtype(s.ConfirmedAt),
		CancelledAt:       pgconv.TimePtrToPgtype(s.CancelledAt),
		CreatedBy:         pgconv.UUIDToPgtype(s.CreatedBy),
		UpdatedBy:         pgconv.UUIDToPgtype(s.UpdatedBy),
	}

	docs := []struct {
		dst *[]byte
		src any
	}{
		{&row.CustomerInfo, s.CustomerInfo},
		{&row.Participants, s.Participants},
		{&row.Pricing, s.Pricing},
		{&row.Payment, s.Payment},
		{&row.StatusHistory, s.StatusHistory},
		{&row.AddOns, s.AddOns},
	}
	for _, d := range docs {
		raw, err := json.Marshal(d.src)
		if err != nil {
			return pgquery.Bookings{}, errs.Wrap(err, "failed to encode booking document")
		}
		*d.dst = raw
	}

	var err error
	if row.Cancellation, err = marshalOptional(s.Cancellation); err != nil {
		return pgquery.Bookings{}, err
	}
	if row.EmergencyContact, err = marshalOptional(s.EmergencyContact); err != nil {
		return pgquery.Bookings{}, err
	}
	return row, nil
}

func BookingFromInfra(row pgquery.Bookings) (*booking.Booking, error) {
	s, err := stateFromRow(row)
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(s), nil
}

func BookingViewFromInfra(row pgquery.BookingViewRow) (*queries.BookingView, error) {
	s, err := stateFromRow(row.Bookings)
	if err != nil {
		return nil, err
	}

	v := &queries.BookingView{
		ID:                s.ID,
		BookingCode:       s.BookingCode,
		TourID:            s.TourID,
		UserID:            s.UserID,
		SelectedDate:      s.SelectedDate,
		NumberOfAdults:    s.NumberOfAdults,
		NumberOfChildren:  s.NumberOfChildren,
		NumberOfInfants:   s.NumberOfInfants,
		TotalParticipants: s.TotalParticipants,
		CustomerInfo:      s.CustomerInfo,
		Participants:      s.Participants,
		Pricing:           s.Pricing,
		Payment:           s.Payment,
		Status:            s.Status,
		StatusHistory:     s.StatusHistory,
		Cancellation:      s.Cancellation,
		SpecialRequests:   s.SpecialRequests,
		AddOns:            s.AddOns,
		EmergencyContact:  s.EmergencyContact,
		InternalNotes:     s.InternalNotes,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		ConfirmedAt:       s.ConfirmedAt,
		CancelledAt:       s.CancelledAt,
		CreatedBy:         s.CreatedBy,
		UpdatedBy:         s.UpdatedBy,
	}
	if row.TourName.Valid {
		v.Tour = &queries.TourSummary{ID: s.TourID, Name: row.TourName.String, Slug: row.TourSlug.String}
	}
	if row.UserEmail.Valid {
		v.User = &queries.UserSummary{ID: s.UserID, FullName: row.UserFullName.String, Email: row.UserEmail.String}
	}
	return v, nil
}

// BookingViewFromDomain builds a view without the tour and user joins.
func BookingViewFromDomain(b *booking.Booking) *queries.BookingView {
	s := b.State()
	return &queries.BookingView{
		ID:                s.ID,
		BookingCode:       s.BookingCode,
		TourID:            s.TourID,
		UserID:            s.UserID,
		SelectedDate:      s.SelectedDate,
		NumberOfAdults:    s.NumberOfAdults,
		NumberOfChildren:  s.NumberOfChildren,
		NumberOfInfants:   s.NumberOfInfants,
		TotalParticipants: s.TotalParticipants,
		CustomerInfo:      s.CustomerInfo,
		Participants:      s.Participants,
		Pricing:           s.Pricing,
		Payment:           s.Payment,
		Status:            s.Status,
		StatusHistory:     s.StatusHistory,
		Cancellation:      s.Cancellation,
		SpecialRequests:   s.SpecialRequests,
		AddOns:            s.AddOns,
		EmergencyContact:  s.EmergencyContact,
		InternalNotes:     s.InternalNotes,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		ConfirmedAt:       s.ConfirmedAt,
		CancelledAt:       s.CancelledAt,
		CreatedBy:         s.CreatedBy,
		UpdatedBy:         s.UpdatedBy,
	}
}

func stateFromRow(row pgquery.Bookings) (booking.State, error) {
	s := booking.State{
		ID:          row.ID,
		BookingCode: row.BookingCode,
		TourID:      row.TourID,
		UserID:      row.UserID,
		SelectedDate: booking.SelectedDate{
			StartDate: pgconv.DateFromPgtype(row.StartDate),
			EndDate:   pgconv.DateFromPgtype(row.EndDate),
		},
		NumberOfAdults:    int(row.NumberOfAdults),
		NumberOfChildren:  int(row.NumberOfChildren),
		NumberOfInfants:   int(row.NumberOfInfants),
		TotalParticipants: int(row.TotalParticipants),
		Status:            booking.Status(row.Status),
		SpecialRequests:   row.SpecialRequests,
		InternalNotes:     row.InternalNotes,
		CreatedAt:         row.CreatedAt.Time.UTC(),
		UpdatedAt:         row.UpdatedAt.Time.UTC(),
		ConfirmedAt:       pgconv.TimePtrFromPgtype(row.ConfirmedAt),
		CancelledAt:       pgconv.TimePtrFromPgtype(row.CancelledAt),
		CreatedBy:         uuidOrNil(row.CreatedBy.Bytes, row.CreatedBy.Valid),
		UpdatedBy:         uuidOrNil(row.UpdatedBy.Bytes, row.UpdatedBy.Valid),
	}

	docs := []struct {
		src []byte
		dst any
	}{
		{row.CustomerInfo, &s.CustomerInfo},
		{row.Participants, &s.Participants},
		{row.Pricing, &s.Pricing},
		{row.Payment, &s.Payment},
		{row.StatusHistory, &s.StatusHistory},
		{row.AddOns, &s.AddOns},
		{row.Cancellation, &s.Cancellation},
		{row.EmergencyContact, &s.EmergencyContact},
	}
	for _, d := range docs {
		if len(d.src) == 0 {
			continue
		}
		if err := json.Unmarshal(d.src, d.dst); err != nil {
			return booking.State{}, errs.Wrapf(err, "failed to decode booking %s", row.ID)
		}
	}
	return s, nil
}

func marshalOptional[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode booking document")
	}
	return raw, nil
}

func uuidOrNil(b [16]byte, valid bool) uuid.UUID {
	if !valid {
		return uuid.Nil
	}
	return uuid.UUID(b)
}
