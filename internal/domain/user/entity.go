package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the slice of an account the booking engine reads: identity,
// contact and role. Accounts are managed elsewhere.
type User struct {
	id          uuid.UUID
	email       Email
	fullName    string
	role        Role
	firebaseUID *string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewUser(email Email, fullName string, role Role, firebaseUID *string) *User {
	return &User{
		id:          uuid.New(),
		email:       email,
		fullName:    fullName,
		role:        role,
		firebaseUID: firebaseUID,
	}
}

func ReconstructUser(id uuid.UUID, email Email, fullName string, role Role, firebaseUID *string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:          id,
		email:       email,
		fullName:    fullName,
		role:        role,
		firebaseUID: firebaseUID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) FullName() string     { return u.fullName }
func (u *User) Role() Role           { return u.role }
func (u *User) FirebaseUID() *string { return u.firebaseUID }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
