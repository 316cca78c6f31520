package request

import (
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/pkg/ptr"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type SelectedDateRequest struct {
	StartDate Date `json:"startDate" binding:"required"`
	EndDate   Date `json:"endDate"`
}

type CustomerInfoRequest struct {
	FullName       string `json:"fullName" binding:"required,max=100"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required,max=20"`
	Address        string `json:"address" binding:"max=255"`
	Nationality    string `json:"nationality" binding:"max=100"`
	PassportNumber string `json:"passportNumber" binding:"max=50"`
}

func (r CustomerInfoRequest) toDomain() booking.CustomerInfo {
	return booking.CustomerInfo{
		FullName:       r.FullName,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		Nationality:    r.Nationality,
		PassportNumber: r.PassportNumber,
	}
}

type ParticipantRequest struct {
	FullName       string `json:"fullName" binding:"required,max=100"`
	DateOfBirth    *Date  `json:"dateOfBirth"`
	Gender         string `json:"gender" binding:"omitempty,oneof=male female other"`
	PassportNumber string `json:"passportNumber" binding:"max=50"`
	Type           string `json:"type" binding:"omitempty,oneof=adult child infant"`
}

type EmergencyContactRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Relationship string `json:"relationship" binding:"max=50"`
	Phone        string `json:"phone" binding:"required,max=20"`
}

type AddOnRequest struct {
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price" binding:"min=0"`
	Quantity int    `json:"quantity" binding:"min=1"`
}

type CreateBookingRequest struct {
	TourID           uuid.UUID                `json:"tourId" binding:"required"`
	SelectedDate     SelectedDateRequest      `json:"selectedDate" binding:"required"`
	NumberOfAdults   int                      `json:"numberOfAdults" binding:"min=0"`
	NumberOfChildren int                      `json:"numberOfChildren" binding:"min=0"`
	NumberOfInfants  int                      `json:"numberOfInfants" binding:"min=0"`
	CustomerInfo     CustomerInfoRequest      `json:"customerInfo" binding:"required"`
	Participants     []ParticipantRequest     `json:"participants" binding:"omitempty,dive"`
	SpecialRequests  string                   `json:"specialRequests" binding:"max=1000"`
	PaymentMethod    string                   `json:"paymentMethod" binding:"omitempty,payment_method"`
	EmergencyContact *EmergencyContactRequest `json:"emergencyContact"`
	AddOns           []AddOnRequest           `json:"addOns" binding:"omitempty,dive"`
}

func (r *CreateBookingRequest) ToInput() commands.CreateBookingInput {
	return commands.CreateBookingInput{
		TourID: r.TourID,
		SelectedDate: booking.SelectedDate{
			StartDate: r.SelectedDate.StartDate.Time,
			EndDate:   r.SelectedDate.EndDate.Time,
		},
		Adults:           r.NumberOfAdults,
		Children:         r.NumberOfChildren,
		Infants:          r.NumberOfInfants,
		PaymentMethod:    r.PaymentMethod,
		CustomerInfo:     r.CustomerInfo.toDomain(),
		Participants:     toParticipants(r.Participants),
		SpecialRequests:  r.SpecialRequests,
		EmergencyContact: toEmergencyContact(r.EmergencyContact),
		AddOns:           toAddOns(r.AddOns),
	}
}

// UpdateBookingRequest edits non-financial fields only. Absent fields are
// left untouched.
type UpdateBookingRequest struct {
	CustomerInfo     *CustomerInfoRequest     `json:"customerInfo"`
	Participants     *[]ParticipantRequest    `json:"participants" binding:"omitempty,dive"`
	SpecialRequests  *string                  `json:"specialRequests" binding:"omitempty,max=1000"`
	EmergencyContact *EmergencyContactRequest `json:"emergencyContact"`
	InternalNotes    *string                  `json:"internalNotes" binding:"omitempty,max=2000"`
}

func (r *UpdateBookingRequest) ToPatch() booking.DetailsPatch {
	p := booking.DetailsPatch{
		SpecialRequests:  r.SpecialRequests,
		EmergencyContact: toEmergencyContact(r.EmergencyContact),
		InternalNotes:    r.InternalNotes,
	}
	if r.CustomerInfo != nil {
		ci := r.CustomerInfo.toDomain()
		p.CustomerInfo = &ci
	}
	if r.Participants != nil {
		ps := toParticipants(*r.Participants)
		p.Participants = &ps
	}
	return p
}

type AddPaymentRequest struct {
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Method        string `json:"method" binding:"omitempty,payment_method"`
	TransactionID string `json:"transactionId" binding:"max=100"`
	Note          string `json:"note" binding:"max=500"`
}

func (r *AddPaymentRequest) ToInput() commands.AddPaymentInput {
	return commands.AddPaymentInput{
		Amount:        r.Amount,
		Method:        r.Method,
		TransactionID: r.TransactionID,
		Note:          r.Note,
	}
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,booking_status"`
	Note   string `json:"note" binding:"max=500"`
}

func (r *UpdateStatusRequest) ToInput() commands.UpdateStatusInput {
	return commands.UpdateStatusInput{Status: r.Status, Note: r.Note}
}

type ListBookingsQuery struct {
	Page      int        `form:"page" binding:"omitempty,min=1"`
	Limit     int        `form:"limit" binding:"omitempty,min=1"`
	Status    string     `form:"status" binding:"omitempty,booking_status"`
	SortBy    string     `form:"sortBy" binding:"omitempty,oneof=createdAt updatedAt startDate total"`
	SortOrder string     `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02" time_utc:"1"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02" time_utc:"1"`
	UserID    string     `form:"userId" binding:"omitempty,uuid"`
	TourID    string     `form:"tourId" binding:"omitempty,uuid"`
}

func (q *ListBookingsQuery) ToFilter() queries.BookingFilter {
	var f queries.BookingFilter
	if q.Status != "" {
		f.Status = ptr.Of(booking.Status(q.Status))
	}
	if q.UserID != "" {
		if id, err := uuid.Parse(q.UserID); err == nil {
			f.UserID = &id
		}
	}
	if q.TourID != "" {
		if id, err := uuid.Parse(q.TourID); err == nil {
			f.TourID = &id
		}
	}
	f.StartFrom = q.StartDate
	f.StartTo = q.EndDate
	return f
}

func (q *ListBookingsQuery) ToPage() queries.PageRequest {
	return queries.PageRequest{
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    q.SortBy,
		SortOrder: queries.SortOrder(q.SortOrder),
	}
}

func toParticipants(in []ParticipantRequest) []booking.Participant {
	out := make([]booking.Participant, 0, len(in))
	for _, p := range in {
		bp := booking.Participant{
			FullName:       p.FullName,
			Gender:         p.Gender,
			PassportNumber: p.PassportNumber,
			Type:           p.Type,
		}
		if p.DateOfBirth != nil && !p.DateOfBirth.IsZero() {
			dob := p.DateOfBirth.Time
			bp.DateOfBirth = &dob
		}
		out = append(out, bp)
	}
	return out
}

func toEmergencyContact(r *EmergencyContactRequest) *booking.EmergencyContact {
	if r == nil {
		return nil
	}
	return &booking.EmergencyContact{Name: r.Name, Relationship: r.Relationship, Phone: r.Phone}
}

func toAddOns(in []AddOnRequest) []booking.AddOn {
	out := make([]booking.AddOn, 0, len(in))
	for _, a := range in {
		out = append(out, booking.AddOn{Name: a.Name, Price: a.Price, Quantity: a.Quantity})
	}
	return out
}
