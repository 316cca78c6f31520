package response

import "tour-booking/internal/usecase/queries"

type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func FromAuthorizedUserView(v *queries.AuthorizedUserView) *UserResponse {
	return &UserResponse{
		ID:       v.ID.String(),
		Email:    v.Email,
		FullName: v.FullName,
		Role:     v.Role,
	}
}
