package converter

import (
	"tour-booking/internal/domain/user"
	"tour-booking/internal/infra/pgquery"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/pkg/pgconv"
	"tour-booking/internal/usecase/queries"
)

// UserFromInfra rejects rows whose email or role no longer pass domain
// validation instead of handing them to the auth layer.
func UserFromInfra(row pgquery.Users) (*user.User, error) {
	email, err := user.NewEmail(row.Email)
	if err != nil {
		return nil, errs.Wrapf(err, "user %s", row.ID)
	}
	role, err := user.NewRole(row.Role)
	if err != nil {
		return nil, errs.Wrapf(err, "user %s", row.ID)
	}
	return user.ReconstructUser(
		row.ID,
		email,
		row.FullName,
		role,
		pgconv.StringPtrFromPgtype(row.FirebaseUID),
		row.CreatedAt.Time,
		row.UpdatedAt.Time,
	), nil
}

func AuthorizedUserViewFromDomain(u *user.User) *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       u.ID(),
		Email:    u.Email().Value(),
		FullName: u.FullName(),
		Role:     u.Role().String(),
	}
}
