//go:build unit || e2e

package builder

import (
	"tour-booking/internal/domain/user"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID          uuid.UUID
	Email       string
	FullName    string
	Role        string
	FirebaseUID *string
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:       uuid.New(),
		Email:    "test@example.com",
		FullName: "Nguyen Van A",
		Role:     "customer",
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	return user.NewUser(email, u.FullName, role, u.FirebaseUID), nil
}

func (u *UserBuilder) BuildView() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

// Fluent builder methods
func (u *UserBuilder) WithID(id uuid.UUID) *UserBuilder {
	u.ID = id
	return u
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) WithFullName(name string) *UserBuilder {
	u.FullName = name
	return u
}

func (u *UserBuilder) WithFirebaseUID(uid string) *UserBuilder {
	u.FirebaseUID = &uid
	return u
}
