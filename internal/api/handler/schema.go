package handler

import (
	"time"

	"github.com/usergate/userauth/internal/core/ports"
)

// createUserRequest is used by both /auth/register and POST /users.
type createUserRequest struct {
	Email    string   `json:"email"    validate:"required,email"     example:"a@x.com"`
	Password string   `json:"password" validate:"required,min=6,max=72" example:"secret1"`
	Roles    []string `json:"roles"    validate:"omitempty,dive,role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required" example:"a@x.com"`
	Password string `json:"password" validate:"required" example:"secret1"`
}

type refreshTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// updateUserRequest holds a partial update; omitted fields stay unchanged.
type updateUserRequest struct {
	Email    *string  `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string  `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	Roles    []string `json:"roles,omitempty"    validate:"omitempty,min=1,dive,role"`
}

// userResponse is the only user shape rendered over HTTP. It has no
// password field.
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

func toUserResponse(v *ports.UserView) userResponse {
	roles := v.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		ID:        v.ID,
		Email:     v.Email,
		Roles:     roles,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func toUserResponses(views []ports.UserView) []userResponse {
	out := make([]userResponse, 0, len(views))
	for i := range views {
		out = append(out, toUserResponse(&views[i]))
	}
	return out
}
