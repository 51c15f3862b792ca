// AngelaMos | 2026
// dto.go

package user

import "time"

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Photo:     u.Photo,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// UpdateMeRequest is the self-service profile slice. Password changes go
// through the dedicated password endpoint only.
type UpdateMeRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2,max=120"`
	Email *string `json:"email" validate:"omitempty,email"`
	Photo *string `json:"photo" validate:"omitempty,max=255"`
}

type AdminUpdateUserRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=2,max=120"`
	Email  *string `json:"email"  validate:"omitempty,email"`
	Photo  *string `json:"photo"  validate:"omitempty,max=255"`
	Role   *string `json:"role"   validate:"omitempty,oneof=user guide lead-guide admin"`
	Active *bool   `json:"active"`
}
