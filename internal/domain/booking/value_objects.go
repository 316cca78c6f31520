package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultNationality = "Vietnam"

// SelectedDate identifies one departure of a tour. Both dates are calendar
// dates normalised to UTC midnight.
type SelectedDate struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func NewSelectedDate(start, end time.Time) (SelectedDate, error) {
	if start.IsZero() {
		return SelectedDate{}, ErrInvalidSelectedDate
	}
	return SelectedDate{StartDate: DateOnly(start), EndDate: DateOnly(end)}, nil
}

func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type CustomerInfo struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address,omitempty"`
	Nationality    string `json:"nationality"`
	PassportNumber string `json:"passportNumber,omitempty"`
}

func (c CustomerInfo) normalized() CustomerInfo {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Email = strings.TrimSpace(c.Email)
	if strings.TrimSpace(c.Nationality) == "" {
		c.Nationality = DefaultNationality
	}
	return c
}

type Participant struct {
	FullName       string     `json:"fullName"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	PassportNumber string     `json:"passportNumber,omitempty"`
	Type           string     `json:"type,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone"`
}

type AddOn struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type StatusChange struct {
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
	ChangedBy uuid.UUID `json:"changedBy"`
	Note      string    `json:"note,omitempty"`
}

type Cancellation struct {
	IsCancelled  bool         `json:"isCancelled"`
	CancelledAt  time.Time    `json:"cancelledAt"`
	CancelledBy  uuid.UUID    `json:"cancelledBy"`
	Reason       string       `json:"reason,omitempty"`
	RefundAmount int64        `json:"refundAmount"`
	RefundStatus RefundStatus `json:"refundStatus"`
	RefundedAt   *time.Time   `json:"refundedAt,omitempty"`
}

// DetailsPatch carries a partial edit; nil fields are left untouched.
type DetailsPatch struct {
	CustomerInfo     *CustomerInfo
	Participants     *[]Participant
	SpecialRequests  *string
	EmergencyContact *EmergencyContact
	InternalNotes    *string
}

func (p DetailsPatch) IsEmpty() bool {
	return p.CustomerInfo == nil && p.Participants == nil && p.SpecialRequests == nil &&
		p.EmergencyContact == nil && p.InternalNotes == nil
}
