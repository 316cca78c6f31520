package shared

import (
	"tour-booking/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role.AtLeast(user.RoleAdmin)
}

// IsStaff covers staff and admin; staff may read any booking.
func (a Actor) IsStaff() bool {
	return a.Role.AtLeast(user.RoleStaff)
}

// CanMutate reports whether the actor may change a booking owned by owner.
func (a Actor) CanMutate(owner uuid.UUID) bool {
	return a.UserID == owner || a.IsAdmin()
}

func (a Actor) CanView(owner uuid.UUID) bool {
	return a.UserID == owner || a.IsStaff()
}
